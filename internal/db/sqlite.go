package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thesavant42/countyroots/internal/models"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// PageInfo describes a cached page
type PageInfo struct {
	URL       string
	Bytes     int
	FetchedAt time.Time
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Extractor goroutines share the connection; serialize writers
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(createPagesTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create pages schema: %w", err)
	}

	if _, err := conn.Exec(createCountiesTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create counties schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// GetPage returns a cached page body
func (db *DB) GetPage(url string) ([]byte, bool, error) {
	var body []byte
	err := db.conn.QueryRow(selectPage, url).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get page: %w", err)
	}
	return body, true, nil
}

// SavePage stores a page body, replacing any earlier copy
func (db *DB) SavePage(url string, body []byte) error {
	if _, err := db.conn.Exec(upsertPage, url, body); err != nil {
		return fmt.Errorf("failed to save page %s: %w", url, err)
	}
	return nil
}

// ListPages returns metadata for every cached page
func (db *DB) ListPages() ([]PageInfo, error) {
	rows, err := db.conn.Query(selectPageInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []PageInfo
	for rows.Next() {
		var p PageInfo
		var fetchedAt string
		if err := rows.Scan(&p.URL, &p.Bytes, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		p.FetchedAt, _ = parseTimestamp(fetchedAt)
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// ClearPages empties the page cache
func (db *DB) ClearPages() error {
	if _, err := db.conn.Exec(deletePages); err != nil {
		return fmt.Errorf("failed to clear pages: %w", err)
	}
	return nil
}

// ReplaceCounties swaps the stored snapshot for records, keeping list order
func (db *DB) ReplaceCounties(records []models.CountyRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteCounties); err != nil {
		return fmt.Errorf("failed to clear counties: %w", err)
	}

	stmt, err := tx.Prepare(insertCounty)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.Exec(
			i,
			r.Jurisdiction,
			r.Name,
			r.Code,
			r.Seat,
			r.EstablishedYear,
			r.EtymologyText,
			string(r.OriginCategory),
		)
		if err != nil {
			return fmt.Errorf("failed to insert county %s: %w", r.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCounties returns the stored snapshot in list order
func (db *DB) GetCounties() ([]models.CountyRecord, error) {
	rows, err := db.conn.Query(selectCounties)
	if err != nil {
		return nil, fmt.Errorf("failed to query counties: %w", err)
	}
	defer rows.Close()
	return scanCounties(rows)
}

// GetCountiesByJurisdiction returns one jurisdiction's counties in list order
func (db *DB) GetCountiesByJurisdiction(jurisdiction string) ([]models.CountyRecord, error) {
	rows, err := db.conn.Query(selectCountiesByJurisdiction, jurisdiction)
	if err != nil {
		return nil, fmt.Errorf("failed to query counties: %w", err)
	}
	defer rows.Close()
	return scanCounties(rows)
}

func scanCounties(rows *sql.Rows) ([]models.CountyRecord, error) {
	var records []models.CountyRecord
	for rows.Next() {
		var r models.CountyRecord
		var category string
		if err := rows.Scan(&r.Jurisdiction, &r.Name, &r.Code, &r.Seat, &r.EstablishedYear, &r.EtymologyText, &category); err != nil {
			return nil, fmt.Errorf("failed to scan county: %w", err)
		}
		r.OriginCategory = models.Category(category)
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetJurisdictionStats returns per-jurisdiction summaries in list order
func (db *DB) GetJurisdictionStats() ([]models.JurisdictionStats, error) {
	rows, err := db.conn.Query(selectJurisdictionStats)
	if err != nil {
		return nil, fmt.Errorf("failed to query jurisdiction stats: %w", err)
	}
	defer rows.Close()

	var stats []models.JurisdictionStats
	for rows.Next() {
		var s models.JurisdictionStats
		if err := rows.Scan(&s.Jurisdiction, &s.Counties, &s.Earliest, &s.Latest, &s.Unclassified); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// parseTimestamp parses SQLite timestamp formats
func parseTimestamp(ts string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, ts); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", ts)
}
