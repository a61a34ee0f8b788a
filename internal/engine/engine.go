// Package engine answers cumulative "which counties existed by year Y"
// queries over an immutable, classified county dataset.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/countyroots/internal/models"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidYear     = errors.New("year must be an integer")
	ErrInvalidCategory = errors.New("category contains control characters")
)

// Observer receives query instrumentation
type Observer interface {
	CacheHit()
	CacheMiss()
	ObserveQuery(d time.Duration)
}

// Engine owns the record list, its year index and the query cache.
// It is safe for concurrent use.
type Engine struct {
	records []models.CountyRecord
	codes   []models.CodeValue // parallel to records

	years      []int         // distinct establishment years, ascending
	byYear     map[int][]int // year -> record positions, list order
	categories map[models.Category]bool

	cache  queryCache
	flight singleflight.Group
	scans  atomic.Int64

	observer Observer
	logger   *log.Logger
}

// Option configures an Engine
type Option func(*engineOptions)

type engineOptions struct {
	cacheSize int
	observer  Observer
	logger    *log.Logger
}

// WithCacheSize bounds the query cache to size entries (LRU). Zero keeps
// every result for the life of the engine.
func WithCacheSize(size int) Option {
	return func(o *engineOptions) {
		o.cacheSize = size
	}
}

// WithObserver attaches query instrumentation
func WithObserver(obs Observer) Option {
	return func(o *engineOptions) {
		o.observer = obs
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// New builds the year index over records. Every record must carry a valid
// administrative code.
func New(records []models.CountyRecord, opts ...Option) (*Engine, error) {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		records:  records,
		codes:    make([]models.CodeValue, len(records)),
		byYear:     make(map[int][]int),
		categories: make(map[models.Category]bool),
		observer:   o.observer,
		logger:   o.logger,
	}

	for i, rec := range records {
		code, err := rec.CodeValue()
		if err != nil {
			return nil, fmt.Errorf("record %d (%s, %s): %w", i, rec.Jurisdiction, rec.Name, err)
		}
		e.codes[i] = code
		e.categories[rec.OriginCategory] = true
		if _, ok := e.byYear[rec.EstablishedYear]; !ok {
			e.years = append(e.years, rec.EstablishedYear)
		}
		e.byYear[rec.EstablishedYear] = append(e.byYear[rec.EstablishedYear], i)
	}
	sort.Ints(e.years)

	if o.cacheSize > 0 {
		c, err := newLRUCache(o.cacheSize)
		if err != nil {
			return nil, err
		}
		e.cache = c
	} else {
		e.cache = newMapCache()
	}

	if e.logger != nil {
		e.logger.Debug("Engine ready", "records", len(records), "years", len(e.years), "cacheSize", o.cacheSize)
	}
	return e, nil
}

// ParseYear validates a year argument received as text
func ParseYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	return year, nil
}

// ValidateSelector rejects category names that cannot come from the taxonomy
// or a config file
func ValidateSelector(sel models.Selector) error {
	if strings.IndexFunc(string(sel.Category), unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, sel.Category)
	}
	return nil
}

// CumulativeCodes returns the codes of every record established on or before
// year whose category matches sel, in dataset order. Results are memoized
// per (year, selector); the returned slice is shared and must not be
// modified.
//
// Queries that cannot match anything (a year before the first record, a
// category absent from the dataset) return an empty slice without touching
// the cache. Other years are keyed by the latest establishment year not
// after them, so the cache never holds more than one entry per indexed year
// and selector.
func (e *Engine) CumulativeCodes(year int, sel models.Selector) ([]models.CodeValue, error) {
	if err := ValidateSelector(sel); err != nil {
		return nil, err
	}
	effective, ok := e.effectiveYear(year)
	if !ok || !e.selectable(sel) {
		return []models.CodeValue{}, nil
	}

	start := time.Now()
	key := queryKey{year: effective, selector: sel}

	if codes, ok := e.cache.Get(key); ok {
		e.observe(true, start)
		return codes, nil
	}

	// the caller's category may alias a reused buffer; the cache keeps its own copy
	key.selector.Category = models.Category(strings.Clone(string(sel.Category)))
	v, err, _ := e.flight.Do(key.flightKey(), func() (interface{}, error) {
		if codes, ok := e.cache.Get(key); ok {
			return codes, nil
		}
		codes := e.scan(effective, key.selector)
		e.cache.Add(key, codes)
		return codes, nil
	})
	e.observe(false, start)
	if err != nil {
		return nil, fmt.Errorf("query %d/%s: %w", year, sel, err)
	}
	return v.([]models.CodeValue), nil
}

// effectiveYear returns the latest indexed year not after year
func (e *Engine) effectiveYear(year int) (int, bool) {
	i := sort.Search(len(e.years), func(i int) bool { return e.years[i] > year })
	if i == 0 {
		return 0, false
	}
	return e.years[i-1], true
}

// selectable reports whether any record could match sel
func (e *Engine) selectable(sel models.Selector) bool {
	if sel.Other {
		return e.categories[""] || e.categories[models.CategoryUnclassified]
	}
	return e.categories[sel.Category]
}

// scan walks the flat record list once
func (e *Engine) scan(year int, sel models.Selector) []models.CodeValue {
	e.scans.Add(1)
	codes := []models.CodeValue{}
	for i, rec := range e.records {
		if rec.EstablishedYear <= year && sel.Matches(rec.OriginCategory) {
			codes = append(codes, e.codes[i])
		}
	}
	return codes
}

func (e *Engine) observe(hit bool, start time.Time) {
	if e.observer == nil {
		return
	}
	if hit {
		e.observer.CacheHit()
	} else {
		e.observer.CacheMiss()
	}
	e.observer.ObserveQuery(time.Since(start))
}

// Scans returns how many times the dataset has been scanned
func (e *Engine) Scans() int64 {
	return e.scans.Load()
}

// CachedQueries returns the number of memoized results
func (e *Engine) CachedQueries() int {
	return e.cache.Len()
}

// Len returns the number of records
func (e *Engine) Len() int {
	return len(e.records)
}
