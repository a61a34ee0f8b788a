package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thesavant42/countyroots/internal/models"
)

// CountyLookup returns one jurisdiction's counties in list order
type CountyLookup func(jurisdiction string) ([]models.CountyRecord, error)

// GenerateCountiesMarkdown renders a dataset snapshot as a markdown document,
// one section per jurisdiction
func GenerateCountiesMarkdown(stats []models.JurisdictionStats, lookup CountyLookup, generated time.Time) (string, error) {
	var sb strings.Builder

	total := 0
	for _, s := range stats {
		total += s.Counties
	}

	sb.WriteString("# County Origins\n\n")
	sb.WriteString(fmt.Sprintf("**Jurisdictions:** %d\n", len(stats)))
	sb.WriteString(fmt.Sprintf("**Counties:** %d\n", total))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", generated.Format("2006-01-02 15:04:05")))

	for _, s := range stats {
		sb.WriteString(fmt.Sprintf("## %s\n\n", s.Jurisdiction))
		sb.WriteString(fmt.Sprintf("- **Counties**: %d\n", s.Counties))
		sb.WriteString(fmt.Sprintf("- **Established**: %d to %d\n", s.Earliest, s.Latest))
		sb.WriteString(fmt.Sprintf("- **Unclassified**: %d\n\n", s.Unclassified))

		counties, err := lookup(s.Jurisdiction)
		if err != nil {
			return "", fmt.Errorf("failed to get counties for %s: %w", s.Jurisdiction, err)
		}
		if len(counties) == 0 {
			sb.WriteString("*No counties found*\n\n")
			continue
		}

		sb.WriteString("| County | Code | Seat | Established | Origin |\n")
		sb.WriteString("|--------|------|------|-------------|--------|\n")
		for _, c := range counties {
			origin := string(c.OriginCategory)
			if origin == "" {
				origin = "-"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s |\n",
				escapeCell(c.Name), c.Code, escapeCell(c.Seat), c.EstablishedYear, origin))
		}
		sb.WriteString("\n---\n\n")
	}

	return sb.String(), nil
}

// escapeCell keeps pipes from breaking markdown table rows
func escapeCell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExportDatabaseBackup copies the current database next to it with a
// timestamped name
func ExportDatabaseBackup(currentDBPath string) (string, error) {
	timestamp := time.Now().Format("2006-01-02-150405")
	baseName := strings.TrimSuffix(filepath.Base(currentDBPath), filepath.Ext(currentDBPath))
	backupFilename := filepath.Join(filepath.Dir(currentDBPath), fmt.Sprintf("%s-backup-%s.db", baseName, timestamp))

	src, err := os.Open(currentDBPath)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(backupFilename)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy database: %w", err)
	}

	return backupFilename, nil
}
