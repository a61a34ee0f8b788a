package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/thesavant42/countyroots/internal/dataset"
	"github.com/thesavant42/countyroots/internal/db"
	"github.com/thesavant42/countyroots/internal/ui"
)

func main() {
	_ = godotenv.Load()

	dbPath := flag.String("db", envOr("COUNTYROOTS_DB", "countyroots.db"), "Path to SQLite database file")
	outPath := flag.String("out", "", "Output file (default counties-export-<timestamp>.md or .json)")
	asJSON := flag.Bool("json", false, "Write the snapshot as a dataset JSON array instead of markdown")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	database, err := db.New(*dbPath)
	if err != nil {
		logger.Fatal("Failed to open database", "error", err)
	}
	defer database.Close()

	stats, err := database.GetJurisdictionStats()
	if err != nil {
		logger.Fatal("Failed to get jurisdiction stats", "error", err)
	}
	if len(stats) == 0 {
		logger.Fatal("Snapshot is empty; run countyroots classify first", "db", *dbPath)
	}

	now := time.Now()
	if *asJSON {
		records, err := database.GetCounties()
		if err != nil {
			logger.Fatal("Failed to read snapshot", "error", err)
		}
		filename := *outPath
		if filename == "" {
			filename = fmt.Sprintf("counties-export-%s.json", now.Format("20060102-150405"))
		}
		if err := dataset.Save(filename, records); err != nil {
			logger.Fatal("Failed to write file", "error", err)
		}
		fmt.Printf("✓ Exported %d counties to %s\n", len(records), filename)
		return
	}

	doc, err := ui.GenerateCountiesMarkdown(stats, database.GetCountiesByJurisdiction, now)
	if err != nil {
		logger.Fatal("Failed to build export", "error", err)
	}

	filename := *outPath
	if filename == "" {
		filename = fmt.Sprintf("counties-export-%s.md", now.Format("20060102-150405"))
	}
	if err := os.WriteFile(filename, []byte(doc), 0644); err != nil {
		logger.Fatal("Failed to write file", "error", err)
	}

	fmt.Printf("✓ Exported %d jurisdictions to %s\n", len(stats), filename)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
