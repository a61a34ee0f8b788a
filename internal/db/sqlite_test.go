package db

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/thesavant42/countyroots/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestPages(t *testing.T) {
	database := newTestDB(t)
	const url = "https://en.wikipedia.org/wiki/List_of_counties_in_Iowa"

	if _, ok, err := database.GetPage(url); err != nil || ok {
		t.Fatalf("GetPage() on empty cache = %v, %v", ok, err)
	}

	if err := database.SavePage(url, []byte("<html>v1</html>")); err != nil {
		t.Fatal(err)
	}
	if err := database.SavePage(url, []byte("<html>version 2</html>")); err != nil {
		t.Fatal(err)
	}

	body, ok, err := database.GetPage(url)
	if err != nil || !ok {
		t.Fatalf("GetPage() = %v, %v", ok, err)
	}
	if string(body) != "<html>version 2</html>" {
		t.Errorf("body = %q, want the latest copy", body)
	}

	pages, err := database.ListPages()
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 || pages[0].URL != url || pages[0].Bytes != len(body) {
		t.Errorf("ListPages() = %+v", pages)
	}
	if pages[0].FetchedAt.IsZero() {
		t.Error("FetchedAt not parsed")
	}

	if err := database.ClearPages(); err != nil {
		t.Fatal(err)
	}
	if pages, _ := database.ListPages(); len(pages) != 0 {
		t.Errorf("pages after clear = %d", len(pages))
	}
}

var snapshot = []models.CountyRecord{
	{Jurisdiction: "Ohio", Name: "Adams County", Code: "39001", Seat: "West Union", EstablishedYear: 1798, EtymologyText: "John Adams", OriginCategory: models.CategoryUnclassified},
	{Jurisdiction: "Alabama", Name: "Autauga County", Code: "01001", Seat: "Prattville", EstablishedYear: 1819, EtymologyText: "Atagi", OriginCategory: models.CategoryNativeAmerican},
	{Jurisdiction: "Ohio", Name: "Allen County", Code: "39003", Seat: "Lima", EstablishedYear: 1821, EtymologyText: "Ethan Allen"},
	{Jurisdiction: "Alabama", Name: "Baldwin County", Code: "01003", Seat: "Bay Minette", EstablishedYear: 1810, EtymologyText: "Abraham Baldwin", OriginCategory: models.CategoryEnglish},
}

func TestReplaceCounties(t *testing.T) {
	database := newTestDB(t)

	if err := database.ReplaceCounties(snapshot[:1]); err != nil {
		t.Fatal(err)
	}
	if err := database.ReplaceCounties(snapshot); err != nil {
		t.Fatal(err)
	}

	got, err := database.GetCounties()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, snapshot) {
		t.Errorf("GetCounties() = %+v\nwant %+v", got, snapshot)
	}

	ohio, err := database.GetCountiesByJurisdiction("Ohio")
	if err != nil {
		t.Fatal(err)
	}
	if len(ohio) != 2 || ohio[0].Code != "39001" || ohio[1].Code != "39003" {
		t.Errorf("GetCountiesByJurisdiction(Ohio) = %+v", ohio)
	}
}

func TestJurisdictionStats(t *testing.T) {
	database := newTestDB(t)
	if err := database.ReplaceCounties(snapshot); err != nil {
		t.Fatal(err)
	}

	stats, err := database.GetJurisdictionStats()
	if err != nil {
		t.Fatal(err)
	}
	want := []models.JurisdictionStats{
		{Jurisdiction: "Ohio", Counties: 2, Earliest: 1798, Latest: 1821, Unclassified: 2},
		{Jurisdiction: "Alabama", Counties: 2, Earliest: 1810, Latest: 1819, Unclassified: 0},
	}
	if !reflect.DeepEqual(stats, want) {
		t.Errorf("GetJurisdictionStats() = %+v\nwant %+v", stats, want)
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, ts := range []string{"2024-01-02 03:04:05", "2024-01-02T03:04:05Z"} {
		if _, err := parseTimestamp(ts); err != nil {
			t.Errorf("parseTimestamp(%q) error: %v", ts, err)
		}
	}
	if _, err := parseTimestamp("yesterday"); err == nil {
		t.Error("parseTimestamp(yesterday) should fail")
	}
}
