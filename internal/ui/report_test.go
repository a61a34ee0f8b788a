package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/thesavant42/countyroots/internal/api"
	"github.com/thesavant42/countyroots/internal/models"
)

func TestPrintExtractionTable(t *testing.T) {
	var buf bytes.Buffer
	PrintExtractionTable(&buf, []api.JurisdictionResult{
		{Jurisdiction: api.Jurisdiction{Name: "Iowa", FIPS: "19"}, Records: make([]models.CountyRecord, 99), Duration: 120 * time.Millisecond},
		{Jurisdiction: api.Jurisdiction{Name: "Ohio", FIPS: "39"}, Err: errors.New("status 404")},
	})
	out := buf.String()
	for _, want := range []string{"Iowa", "99", "Ohio", "status 404"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	PrintExtractionTable(&buf, nil)
	if !strings.Contains(buf.String(), "No data") {
		t.Errorf("empty results = %q", buf.String())
	}
}

func TestPrintCategoryTable(t *testing.T) {
	var buf bytes.Buffer
	PrintCategoryTable(&buf, map[models.Category]int{
		models.CategoryFrench:       1,
		models.CategoryUnclassified: 3,
	})
	out := buf.String()
	if strings.Index(out, "Unclassified") > strings.Index(out, "French") {
		t.Errorf("largest category should print first:\n%s", out)
	}
	if !strings.Contains(out, "75.0%") {
		t.Errorf("missing share:\n%s", out)
	}
}
