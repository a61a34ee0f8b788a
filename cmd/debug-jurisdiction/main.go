// Debug tool to test county table fetching and parsing for one state
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/thesavant42/countyroots/internal/api"
)

func main() {
	name := "Iowa"
	if len(os.Args) > 1 {
		name = os.Args[1]
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
	})

	j, ok := api.FindJurisdiction(name)
	if !ok {
		fmt.Printf("ERROR: unknown state %q\n", name)
		os.Exit(1)
	}

	client := api.NewWikiClient(logger)
	fmt.Printf("Testing county table for: %s (FIPS %s)\n", j.Name, j.FIPS)
	fmt.Printf("URL: %s\n", client.ArticleURL(j.Article()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fmt.Println("\n--- Fetching page ---")
	body, err := client.FetchArticle(ctx, j.Article())
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Bytes: %d\n", len(body))

	fmt.Println("\n--- Parsing table ---")
	records, skipped, err := api.ParseCountyTable(j, bytes.NewReader(body))
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Records: %d\n", len(records))
	fmt.Printf("Skipped: %d\n", len(skipped))

	fmt.Println("\nFirst records:")
	for i, rec := range records {
		if i >= 5 {
			fmt.Printf("  ... and %d more\n", len(records)-5)
			break
		}
		fmt.Printf("  %d. %s [%s] seat=%s est=%d\n     %s\n", i+1, rec.Name, rec.Code, rec.Seat, rec.EstablishedYear, rec.EtymologyText)
	}

	if len(skipped) > 0 {
		fmt.Println("\nSkipped rows:")
		for _, rowErr := range skipped {
			fmt.Printf("  row %d: %v\n     cells: %q\n", rowErr.Row, rowErr.Err, rowErr.Cells)
		}
	}
}
