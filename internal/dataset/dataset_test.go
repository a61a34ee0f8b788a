package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/thesavant42/countyroots/internal/models"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "eData.json")
	records := []models.CountyRecord{
		{Jurisdiction: "Alabama", Name: "Autauga County", Code: "01001", EstablishedYear: 1819, OriginCategory: models.CategoryNativeAmerican},
		{Jurisdiction: "Ohio", Name: "Adams County", Code: "39001", EstablishedYear: 1798},
	}

	if err := Save(path, records); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("Load() = %+v, want %+v", got, records)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"code":"01001"`) {
		t.Errorf("code should stay a string with its leading zero: %s", data)
	}
	if strings.Count(string(data), "originCategory") != 1 {
		t.Errorf("unclassified records should omit originCategory: %s", data)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestSaveNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := Save(path, nil); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "[]" {
		t.Errorf("Save(nil) wrote %s, want []", data)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Load() of a missing file should fail")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"not":"a list"}`), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("Load() of a non-array should fail")
	}
}
