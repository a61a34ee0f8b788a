package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/countyroots/internal/models"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// Jurisdiction is a state whose county list is scraped
type Jurisdiction struct {
	Name string
	FIPS string // two-digit state prefix
}

// Article returns the title of the jurisdiction's county list article
func (j Jurisdiction) Article() string {
	return "List of counties in " + j.Name
}

// Jurisdictions is the fixed fetch list, in output order
var Jurisdictions = []Jurisdiction{
	{"Alabama", "01"}, {"Alaska", "02"}, {"Arizona", "04"}, {"Arkansas", "05"},
	{"California", "06"}, {"Colorado", "08"}, {"Connecticut", "09"}, {"Delaware", "10"},
	{"Florida", "12"}, {"Georgia", "13"}, {"Hawaii", "15"}, {"Idaho", "16"},
	{"Illinois", "17"}, {"Indiana", "18"}, {"Iowa", "19"}, {"Kansas", "20"},
	{"Kentucky", "21"}, {"Louisiana", "22"}, {"Maine", "23"}, {"Maryland", "24"},
	{"Massachusetts", "25"}, {"Michigan", "26"}, {"Minnesota", "27"}, {"Mississippi", "28"},
	{"Missouri", "29"}, {"Montana", "30"}, {"Nebraska", "31"}, {"Nevada", "32"},
	{"New Hampshire", "33"}, {"New Jersey", "34"}, {"New Mexico", "35"}, {"New York", "36"},
	{"North Carolina", "37"}, {"North Dakota", "38"}, {"Ohio", "39"}, {"Oklahoma", "40"},
	{"Oregon", "41"}, {"Pennsylvania", "42"}, {"Rhode Island", "44"}, {"South Carolina", "45"},
	{"South Dakota", "46"}, {"Tennessee", "47"}, {"Texas", "48"}, {"Utah", "49"},
	{"Vermont", "50"}, {"Virginia", "51"}, {"Washington", "53"}, {"West Virginia", "54"},
	{"Wisconsin", "55"}, {"Wyoming", "56"},
}

// FindJurisdiction looks up a jurisdiction by name, case-insensitively
func FindJurisdiction(name string) (Jurisdiction, bool) {
	for _, j := range Jurisdictions {
		if strings.EqualFold(j.Name, strings.TrimSpace(name)) {
			return j, true
		}
	}
	return Jurisdiction{}, false
}

// ColumnLayout maps record fields to cell positions within a table row
type ColumnLayout struct {
	Name        int
	Code        int
	Seat        int
	Established int
	Etymology   int
}

var (
	// StandardLayout is the current county table format
	StandardLayout = ColumnLayout{Name: 0, Code: 1, Seat: 2, Established: 3, Etymology: 5}
	// ExtendedLayout carries an extra column before the establishment date
	ExtendedLayout = ColumnLayout{Name: 0, Code: 1, Seat: 2, Established: 4, Etymology: 6}
)

// layoutOverrides pins jurisdictions to a layout regardless of row content
var layoutOverrides = map[string]ColumnLayout{
	"Alabama": ExtendedLayout,
	"Iowa":    ExtendedLayout,
}

// anomalousYear is what the standard layout yields when it lands on a
// table using the extended format
const anomalousYear = 2002

// needsExtendedLayout reports whether a standard-layout year reading points
// at the extended format
func needsExtendedLayout(year int, err error) bool {
	return err != nil || year == anomalousYear || !fourDigits(year)
}

func fourDigits(year int) bool {
	return year >= 1000 && year <= 9999
}

var (
	ErrMissingCode     = errors.New("missing county code")
	ErrMalformedCode   = errors.New("county code is not numeric")
	ErrImplausibleYear = errors.New("establishment year is not four digits")
)

// LayoutFor picks the column layout for a row of the given jurisdiction
func LayoutFor(jurisdiction string, cells []string) ColumnLayout {
	if layout, ok := layoutOverrides[jurisdiction]; ok {
		return layout
	}
	if needsExtendedLayout(EstablishmentYear(cellAt(cells, StandardLayout.Established))) {
		return ExtendedLayout
	}
	return StandardLayout
}

func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseCountyRow builds a record from the text cells of one table row
func ParseCountyRow(j Jurisdiction, cells []string) (models.CountyRecord, error) {
	layout := LayoutFor(j.Name, cells)

	suffix := strings.TrimSpace(cellAt(cells, layout.Code))
	if suffix == "" {
		return models.CountyRecord{}, ErrMissingCode
	}
	if !isDigits(suffix) {
		return models.CountyRecord{}, fmt.Errorf("%w: %q", ErrMalformedCode, suffix)
	}
	code := j.FIPS + suffix
	if _, err := models.NewCodeValue(code); err != nil {
		return models.CountyRecord{}, err
	}

	year, err := EstablishmentYear(cellAt(cells, layout.Established))
	if err != nil {
		return models.CountyRecord{}, err
	}
	if !fourDigits(year) {
		return models.CountyRecord{}, fmt.Errorf("%w: %d", ErrImplausibleYear, year)
	}

	return models.CountyRecord{
		Jurisdiction:    j.Name,
		Name:            strings.TrimSpace(cellAt(cells, layout.Name)),
		Code:            code,
		Seat:            strings.TrimSpace(cellAt(cells, layout.Seat)),
		EstablishedYear: year,
		EtymologyText:   strings.TrimSpace(cellAt(cells, layout.Etymology)),
	}, nil
}

// RowError records a table row that could not be turned into a record
type RowError struct {
	Row   int // 1-based, header excluded
	Cells []string
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// ParseCountyTable parses the first wikitable of a county list page.
// The header row is skipped; rows that fail to parse are returned as
// RowErrors and do not stop the table.
func ParseCountyTable(j Jurisdiction, r io.Reader) ([]models.CountyRecord, []RowError, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse html: %w", err)
	}
	table, err := FirstTable(doc)
	if err != nil {
		return nil, nil, err
	}

	rows := TableRows(table)
	if len(rows) > 0 {
		rows = rows[1:]
	}

	records := make([]models.CountyRecord, 0, len(rows))
	var skipped []RowError
	for i, row := range rows {
		cells := RowCells(row)
		rec, err := ParseCountyRow(j, cells)
		if err != nil {
			skipped = append(skipped, RowError{Row: i + 1, Cells: cells, Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// JurisdictionResult is the settled outcome of one jurisdiction fetch
type JurisdictionResult struct {
	Jurisdiction Jurisdiction
	Records      []models.CountyRecord
	Skipped      []RowError
	Err          error
	Duration     time.Duration
}

// CountyExtractor fetches and parses county tables
type CountyExtractor struct {
	client      *WikiClient
	logger      *log.Logger
	concurrency int
	onSettled   func(JurisdictionResult)
}

// NewCountyExtractor creates an extractor. A concurrency of zero or less
// launches every jurisdiction at once.
func NewCountyExtractor(client *WikiClient, logger *log.Logger, concurrency int) *CountyExtractor {
	return &CountyExtractor{
		client:      client,
		logger:      logger,
		concurrency: concurrency,
	}
}

// OnSettled registers a callback invoked as each jurisdiction finishes.
// Calls are serialized but arrive in completion order.
func (e *CountyExtractor) OnSettled(fn func(JurisdictionResult)) {
	e.onSettled = fn
}

// ExtractJurisdiction fetches and parses a single jurisdiction
func (e *CountyExtractor) ExtractJurisdiction(ctx context.Context, j Jurisdiction) JurisdictionResult {
	start := time.Now()
	result := JurisdictionResult{Jurisdiction: j}

	body, err := e.client.FetchArticle(ctx, j.Article())
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", j.Name, err)
		result.Duration = time.Since(start)
		return result
	}

	records, skipped, err := ParseCountyTable(j, bytes.NewReader(body))
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", j.Name, err)
	} else {
		result.Records = records
		result.Skipped = skipped
	}
	result.Duration = time.Since(start)
	return result
}

// ExtractAll fetches every jurisdiction concurrently and flattens the
// records in jurisdiction order once all have settled. A failed
// jurisdiction is logged and contributes no records.
func (e *CountyExtractor) ExtractAll(ctx context.Context, jurisdictions []Jurisdiction) ([]models.CountyRecord, []JurisdictionResult) {
	results := make([]JurisdictionResult, len(jurisdictions))

	var g errgroup.Group
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}

	var settleMu sync.Mutex
	for i, j := range jurisdictions {
		g.Go(func() error {
			res := e.ExtractJurisdiction(ctx, j)
			results[i] = res
			e.logResult(res)
			if e.onSettled != nil {
				settleMu.Lock()
				e.onSettled(res)
				settleMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, res := range results {
		total += len(res.Records)
	}
	records := make([]models.CountyRecord, 0, total)
	for _, res := range results {
		records = append(records, res.Records...)
	}
	return records, results
}

func (e *CountyExtractor) logResult(res JurisdictionResult) {
	if e.logger == nil {
		return
	}
	if res.Err != nil {
		e.logger.Error("Jurisdiction failed", "jurisdiction", res.Jurisdiction.Name, "error", res.Err)
		return
	}
	e.logger.Info("Jurisdiction parsed",
		"jurisdiction", res.Jurisdiction.Name,
		"records", len(res.Records),
		"skipped", len(res.Skipped),
		"took", res.Duration.Round(time.Millisecond))
	for _, rowErr := range res.Skipped {
		e.logger.Debug("Row skipped", "jurisdiction", res.Jurisdiction.Name, "row", rowErr.Row, "error", rowErr.Err)
	}
}
