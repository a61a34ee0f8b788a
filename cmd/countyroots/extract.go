package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thesavant42/countyroots/internal/api"
	"github.com/thesavant42/countyroots/internal/dataset"
	"github.com/thesavant42/countyroots/internal/db"
	"github.com/thesavant42/countyroots/internal/models"
	"github.com/thesavant42/countyroots/internal/ui"
)

type extractOptions struct {
	out           string
	refresh       bool
	noCache       bool
	concurrency   int
	jurisdictions []string
}

func newExtractCmd(a *app) *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Fetch every state's county table and write the raw dataset",
		Long: `Fetches the county list article of every state concurrently, parses
each table into county records and writes them, in state order, as a JSON
array. A state whose page cannot be fetched or parsed is logged and skipped.

Fetched pages are cached in the SQLite database; use --refresh to refetch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output path (default $COUNTYROOTS_RAW_DATASET)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "Ignore cached pages and refetch")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Do not read or write the page cache")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", -1, "Concurrent fetches (0 = all at once, default $COUNTYROOTS_FETCH_CONCURRENCY)")
	cmd.Flags().StringSliceVar(&opts.jurisdictions, "state", nil, "Only extract the named states")
	return cmd
}

// selectJurisdictions resolves --state names, keeping the canonical order
func selectJurisdictions(names []string) ([]api.Jurisdiction, error) {
	if len(names) == 0 {
		return api.Jurisdictions, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		j, ok := api.FindJurisdiction(name)
		if !ok {
			return nil, fmt.Errorf("unknown state %q", name)
		}
		wanted[j.Name] = true
	}
	var out []api.Jurisdiction
	for _, j := range api.Jurisdictions {
		if wanted[j.Name] {
			out = append(out, j)
		}
	}
	return out, nil
}

func (a *app) wikiClient(database *db.DB, refresh bool) *api.WikiClient {
	opts := []api.WikiOption{
		api.WithBaseURL(a.cfg.WikiBaseURL),
		api.WithTimeout(a.cfg.FetchTimeout),
	}
	if a.cfg.UserAgent != "" {
		opts = append(opts, api.WithUserAgent(a.cfg.UserAgent))
	}
	if database != nil {
		opts = append(opts, api.WithPageCache(database, refresh))
	}
	return api.NewWikiClient(a.logger, opts...)
}

func (a *app) runExtract(ctx context.Context, opts extractOptions) error {
	jurisdictions, err := selectJurisdictions(opts.jurisdictions)
	if err != nil {
		return err
	}
	out := opts.out
	if out == "" {
		out = a.cfg.RawDatasetPath
	}
	concurrency := opts.concurrency
	if concurrency < 0 {
		concurrency = a.cfg.FetchConcurrency
	}

	var database *db.DB
	if a.cfg.UsePageCache && !opts.noCache {
		database, err = a.openDB()
		if err != nil {
			return err
		}
		defer database.Close()
	}

	extractor := api.NewCountyExtractor(a.wikiClient(database, opts.refresh), a.logger, concurrency)

	var (
		records []models.CountyRecord
		results []api.JurisdictionResult
	)
	run := func(ctx context.Context, progress func(string)) error {
		settled := 0
		extractor.OnSettled(func(res api.JurisdictionResult) {
			settled++
			a.metrics.ObserveJurisdiction(res.Err, len(res.Records), len(res.Skipped))
			progress(fmt.Sprintf("%d/%d %s", settled, len(jurisdictions), res.Jurisdiction.Name))
		})
		records, results = extractor.ExtractAll(ctx, jurisdictions)
		return nil
	}

	title := fmt.Sprintf("Fetching %d county tables...", len(jurisdictions))
	if a.interactive() {
		if err := ui.RunWithProgress(ctx, title, run); err != nil {
			return err
		}
	} else {
		a.logger.Info(title)
		if err := run(ctx, func(string) {}); err != nil {
			return err
		}
	}
	defer a.writeMetrics()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	ui.PrintHeader(a.out, "County Extraction", fmt.Sprintf("%d records from %d states (%d failed)", len(records), len(results)-failed, failed))
	ui.PrintExtractionTable(a.out, results)

	if len(records) == 0 {
		return errors.New("no records extracted")
	}
	if err := dataset.Save(out, records); err != nil {
		return err
	}
	ui.PrintSuccess(a.out, fmt.Sprintf("Wrote %d records to %s", len(records), out))
	return nil
}
