package engine

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/goleak"

	"github.com/thesavant42/countyroots/internal/models"
)

func codes(t *testing.T, raw ...string) []models.CodeValue {
	t.Helper()
	out := make([]models.CodeValue, 0, len(raw))
	for _, r := range raw {
		v, err := models.NewCodeValue(r)
		if err != nil {
			t.Fatalf("NewCodeValue(%q): %v", r, err)
		}
		out = append(out, v)
	}
	return out
}

func mustEngine(t *testing.T, records []models.CountyRecord, opts ...Option) *Engine {
	t.Helper()
	e, err := New(records, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e
}

var sample = []models.CountyRecord{
	{Jurisdiction: "Ohio", Name: "Adams County", Code: "39001", EstablishedYear: 1798, OriginCategory: models.CategoryEnglish},
	{Jurisdiction: "Ohio", Name: "Allen County", Code: "39003", EstablishedYear: 1821, OriginCategory: models.CategoryUnclassified},
	{Jurisdiction: "Alabama", Name: "Autauga County", Code: "01001", EstablishedYear: 1819, OriginCategory: models.CategoryNativeAmerican},
	{Jurisdiction: "Iowa", Name: "Dubuque County", Code: "19061", EstablishedYear: 1835, OriginCategory: models.CategoryFrench},
	{Jurisdiction: "Iowa", Name: "Adair County", Code: "19001", EstablishedYear: 1852},
	{Jurisdiction: "Texas", Name: "Bexar County", Code: "48029", EstablishedYear: 1837, OriginCategory: models.CategorySpanish},
	{Jurisdiction: "Texas", Name: "Gillespie County", Code: "48171", EstablishedYear: 1849, OriginCategory: models.CategoryGerman},
	{Jurisdiction: "Texas", Name: "Fredericksburg County", Code: "48999", EstablishedYear: 1849, OriginCategory: models.CategoryGerman},
}

// TestCumulativeCodesScenario is the two-record end-to-end example
func TestCumulativeCodesScenario(t *testing.T) {
	e := mustEngine(t, []models.CountyRecord{
		{Code: "01001", EstablishedYear: 1800, OriginCategory: models.CategoryFrench},
		{Code: "01003", EstablishedYear: 1850, OriginCategory: models.CategoryEnglish},
	})

	tests := []struct {
		year     int
		category models.Category
		want     []models.CodeValue
	}{
		{1820, models.CategoryFrench, codes(t, "01001")},
		{1820, models.CategoryEnglish, []models.CodeValue{}},
		{1850, models.CategoryEnglish, codes(t, "01003")},
		{1799, models.CategoryFrench, []models.CodeValue{}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%s", tt.year, tt.category), func(t *testing.T) {
			got, err := e.CumulativeCodes(tt.year, models.Only(tt.category))
			if err != nil {
				t.Fatalf("CumulativeCodes() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CumulativeCodes() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestCumulativeCodesInclusive verifies a record counts from its own year
func TestCumulativeCodesInclusive(t *testing.T) {
	e := mustEngine(t, sample)
	got, err := e.CumulativeCodes(1849, models.Only(models.CategoryGerman))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(codes(t, "48171", "48999"), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCumulativeCodesOther(t *testing.T) {
	e := mustEngine(t, sample)
	got, err := e.CumulativeCodes(2013, models.Other())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(codes(t, "39003", "19001"), got); diff != "" {
		t.Errorf("Other mismatch (-want +got):\n%s", diff)
	}
}

func TestCumulativeCodesUnknownCategory(t *testing.T) {
	e := mustEngine(t, sample)
	got, err := e.CumulativeCodes(2013, models.Only("Klingon"))
	if err != nil {
		t.Fatalf("unknown category should not error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

// TestCumulativeCodesMonotonic checks Y1 < Y2 implies a subset, with order kept
func TestCumulativeCodesMonotonic(t *testing.T) {
	e := mustEngine(t, sample)
	selectors := []models.Selector{models.Other()}
	for _, c := range models.Categories {
		selectors = append(selectors, models.Only(c))
	}

	for _, sel := range selectors {
		prev := []models.CodeValue{}
		for year := 1790; year <= 1860; year++ {
			cur, err := e.CumulativeCodes(year, sel)
			if err != nil {
				t.Fatal(err)
			}
			if !isSubsequence(prev, cur) {
				t.Fatalf("%s: codes at %d %v are not contained in %d %v", sel, year-1, prev, year, cur)
			}
			prev = cur
		}
	}
}

func isSubsequence(sub, seq []models.CodeValue) bool {
	i := 0
	for _, v := range seq {
		if i < len(sub) && sub[i] == v {
			i++
		}
	}
	return i == len(sub)
}

// TestCumulativeCodesMemoized verifies a repeat query does not rescan
func TestCumulativeCodesMemoized(t *testing.T) {
	e := mustEngine(t, sample)
	sel := models.Only(models.CategoryGerman)

	first, err := e.CumulativeCodes(1850, sel)
	if err != nil {
		t.Fatal(err)
	}
	scans := e.Scans()
	second, err := e.CumulativeCodes(1850, sel)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeat differs (-first +second):\n%s", diff)
	}
	if e.Scans() != scans {
		t.Errorf("repeat query scanned: %d -> %d", scans, e.Scans())
	}
	if e.CachedQueries() != 1 {
		t.Errorf("CachedQueries() = %d, want 1", e.CachedQueries())
	}

	if _, err := e.CumulativeCodes(1850, models.Other()); err != nil {
		t.Fatal(err)
	}
	if e.Scans() != scans+1 {
		t.Errorf("new selector should scan once, scans = %d", e.Scans())
	}
}

// TestCacheKeyNoCollision guards against joined-string keys: a category that
// spells out another key must not share its cache slot
func TestCacheKeyNoCollision(t *testing.T) {
	records := []models.CountyRecord{
		{Code: "1001", EstablishedYear: 1800, OriginCategory: "A"},
		{Code: "1002", EstablishedYear: 1800, OriginCategory: "0A"},
	}
	e := mustEngine(t, records)

	a, _ := e.CumulativeCodes(18000, models.Only("A"))
	b, _ := e.CumulativeCodes(1800, models.Only("0A"))
	if diff := cmp.Diff(codes(t, "1001"), a); diff != "" {
		t.Errorf("A mismatch: %s", diff)
	}
	if diff := cmp.Diff(codes(t, "1002"), b); diff != "" {
		t.Errorf("0A mismatch: %s", diff)
	}

	k1 := queryKey{year: 1, selector: models.Only("2/false/x")}
	k2 := queryKey{year: 12, selector: models.Only("x")}
	if k1.flightKey() == k2.flightKey() {
		t.Errorf("flight keys collide: %s", k1.flightKey())
	}
}

func TestLRUCacheBound(t *testing.T) {
	e := mustEngine(t, sample, WithCacheSize(2))
	sel := models.Only(models.CategoryFrench)

	// 1800, 1820 and 1836 index as 1798, 1819 and 1835
	for _, year := range []int{1800, 1820, 1836} {
		if _, err := e.CumulativeCodes(year, sel); err != nil {
			t.Fatal(err)
		}
	}
	if e.CachedQueries() != 2 {
		t.Errorf("CachedQueries() = %d, want 2", e.CachedQueries())
	}

	scans := e.Scans()
	if _, err := e.CumulativeCodes(1800, sel); err != nil {
		t.Fatal(err)
	}
	if e.Scans() != scans+1 {
		t.Error("evicted entry should be recomputed")
	}
}

// TestCumulativeCodesSharesYearSlots verifies years between establishment
// dates reuse one cache entry
func TestCumulativeCodesSharesYearSlots(t *testing.T) {
	e := mustEngine(t, sample)
	sel := models.Only(models.CategoryGerman)

	for _, year := range []int{1849, 1850, 1851} {
		got, err := e.CumulativeCodes(year, sel)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(codes(t, "48171", "48999"), got); diff != "" {
			t.Errorf("year %d mismatch (-want +got):\n%s", year, diff)
		}
	}
	// everything from the last indexed year on shares one more slot
	for year := 1852; year < 100000; year += 997 {
		if _, err := e.CumulativeCodes(year, sel); err != nil {
			t.Fatal(err)
		}
	}
	if e.Scans() != 2 || e.CachedQueries() != 2 {
		t.Errorf("Scans() = %d, CachedQueries() = %d; want 2, 2", e.Scans(), e.CachedQueries())
	}
}

// TestCumulativeCodesSkipsCacheWhenNothingMatches covers categories absent
// from the dataset and years before the first record
func TestCumulativeCodesSkipsCacheWhenNothingMatches(t *testing.T) {
	e := mustEngine(t, sample)

	for i := 0; i < 50; i++ {
		got, err := e.CumulativeCodes(1850, models.Only(models.Category(fmt.Sprintf("Klingon%d", i))))
		if err != nil {
			t.Fatal(err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("got %v, want empty non-nil slice", got)
		}
	}
	got, err := e.CumulativeCodes(1700, models.Only(models.CategoryEnglish))
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v before the first record, want empty", got)
	}

	if e.Scans() != 0 || e.CachedQueries() != 0 {
		t.Errorf("Scans() = %d, CachedQueries() = %d; want 0, 0", e.Scans(), e.CachedQueries())
	}

	classified := mustEngine(t, []models.CountyRecord{
		{Code: "01001", EstablishedYear: 1800, OriginCategory: models.CategoryFrench},
	})
	if got, _ := classified.CumulativeCodes(1850, models.Other()); len(got) != 0 || classified.CachedQueries() != 0 {
		t.Errorf("Other on a fully classified dataset = %v, cached %d", got, classified.CachedQueries())
	}
}

// TestCumulativeCodesOwnsCacheKeys reuses the caller's category bytes after a
// query; the stored entry must still answer for the original category
func TestCumulativeCodesOwnsCacheKeys(t *testing.T) {
	e := mustEngine(t, sample)

	buf := []byte("Spanish")
	category := models.Category(unsafe.String(&buf[0], len(buf)))
	if _, err := e.CumulativeCodes(1850, models.Only(category)); err != nil {
		t.Fatal(err)
	}
	copy(buf, "Zzzzzzz")

	scans := e.Scans()
	got, err := e.CumulativeCodes(1850, models.Only(models.CategorySpanish))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(codes(t, "48029"), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if e.Scans() != scans {
		t.Error("cached entry was lost after the caller reused its buffer")
	}
}

func TestNewRejectsInvalidCodes(t *testing.T) {
	_, err := New([]models.CountyRecord{{Name: "Bad County", Code: "12a"}})
	if !errors.Is(err, models.ErrInvalidCode) {
		t.Errorf("New() error = %v, want ErrInvalidCode", err)
	}
	_, err = New([]models.CountyRecord{{Name: "Empty County"}})
	if !errors.Is(err, models.ErrEmptyCode) {
		t.Errorf("New() error = %v, want ErrEmptyCode", err)
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1850", 1850, false},
		{" 1617 ", 1617, false},
		{"-5", -5, false},
		{"18x0", 0, true},
		{"", 0, true},
		{"1850.5", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseYear(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidYear) {
				t.Errorf("ParseYear(%q) error = %v, want ErrInvalidYear", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseYear(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestCumulativeCodesRejectsControlCharacters(t *testing.T) {
	e := mustEngine(t, sample)
	_, err := e.CumulativeCodes(1850, models.Only("French\x00"))
	if !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("error = %v, want ErrInvalidCategory", err)
	}
	if e.Scans() != 0 {
		t.Error("rejected query should not scan")
	}
}

// TestCumulativeCodesConcurrent hammers one key from many goroutines; the
// dataset is scanned once
func TestCumulativeCodesConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := mustEngine(t, sample)
	want := codes(t, "39001")

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.CumulativeCodes(1820, models.Only(models.CategoryEnglish))
			if err != nil {
				errs <- err
				return
			}
			if !cmp.Equal(want, got) {
				errs <- fmt.Errorf("got %v", got)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if e.Scans() != 1 {
		t.Errorf("Scans() = %d, want 1", e.Scans())
	}
}

type countingObserver struct {
	mu           sync.Mutex
	hits, misses int
	durations    []time.Duration
}

func (o *countingObserver) CacheHit()  { o.mu.Lock(); o.hits++; o.mu.Unlock() }
func (o *countingObserver) CacheMiss() { o.mu.Lock(); o.misses++; o.mu.Unlock() }
func (o *countingObserver) ObserveQuery(d time.Duration) {
	o.mu.Lock()
	o.durations = append(o.durations, d)
	o.mu.Unlock()
}

func TestObserver(t *testing.T) {
	obs := &countingObserver{}
	e := mustEngine(t, sample, WithObserver(obs))
	for i := 0; i < 3; i++ {
		if _, err := e.CumulativeCodes(1850, models.Other()); err != nil {
			t.Fatal(err)
		}
	}
	if obs.hits != 2 || obs.misses != 1 || len(obs.durations) != 3 {
		t.Errorf("observer = %d hits, %d misses, %d durations", obs.hits, obs.misses, len(obs.durations))
	}
}

func TestIndex(t *testing.T) {
	e := mustEngine(t, sample)

	wantYears := []int{1798, 1819, 1821, 1835, 1837, 1849, 1852}
	if diff := cmp.Diff(wantYears, e.Years()); diff != "" {
		t.Errorf("Years() mismatch (-want +got):\n%s", diff)
	}

	first, last, ok := e.Bounds()
	if !ok || first != 1798 || last != 1852 {
		t.Errorf("Bounds() = %d, %d, %v", first, last, ok)
	}

	names := []string{}
	for _, rec := range e.EstablishedIn(1849) {
		names = append(names, rec.Name)
	}
	if diff := cmp.Diff([]string{"Gillespie County", "Fredericksburg County"}, names); diff != "" {
		t.Errorf("EstablishedIn(1849) mismatch:\n%s", diff)
	}
	if len(e.EstablishedIn(1700)) != 0 {
		t.Error("EstablishedIn(1700) should be empty")
	}

	stats := e.Stats(1837)
	want := map[models.Category]int{
		models.CategoryEnglish:        1,
		models.CategoryUnclassified:   1,
		models.CategoryNativeAmerican: 1,
		models.CategoryFrench:         1,
		models.CategorySpanish:        1,
	}
	if diff := cmp.Diff(want, stats, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Stats(1837) mismatch (-want +got):\n%s", diff)
	}

	if _, _, ok := mustEngine(t, nil).Bounds(); ok {
		t.Error("empty engine should report no bounds")
	}
}

func TestPeriodFor(t *testing.T) {
	tests := []struct {
		year int
		want string
		ok   bool
	}{
		{1617, "Start", true},
		{1700, "Mid", true},
		{2013, "End", true},
		{1500, "", false},
	}
	for _, tt := range tests {
		p, ok := PeriodFor(tt.year)
		if ok != tt.ok || p.Name != tt.want {
			t.Errorf("PeriodFor(%d) = %q, %v; want %q, %v", tt.year, p.Name, ok, tt.want, tt.ok)
		}
	}
}
