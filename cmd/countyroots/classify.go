package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/thesavant42/countyroots/internal/api"
	"github.com/thesavant42/countyroots/internal/classify"
	"github.com/thesavant42/countyroots/internal/dataset"
	"github.com/thesavant42/countyroots/internal/models"
	"github.com/thesavant42/countyroots/internal/ui"
)

type classifyOptions struct {
	in         string
	out        string
	merge      bool
	noSnapshot bool
	backup     bool
}

func newClassifyCmd(a *app) *cobra.Command {
	var opts classifyOptions

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Assign an origin category to every county",
		Long: `Reads the raw dataset, assigns each county an origin category from its
etymology text and writes the enriched dataset. The result is also stored
as a snapshot in the SQLite database for export-counties.

With --merge-namelists, place names scraped from per-language name lists
classify counties whose etymology matches no rule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("merge-namelists") {
				opts.merge = a.cfg.MergeNameLists
			}
			return a.runClassify(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.in, "in", "i", "", "Raw dataset (default $COUNTYROOTS_RAW_DATASET)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Enriched dataset (default $COUNTYROOTS_DATASET)")
	cmd.Flags().BoolVar(&opts.merge, "merge-namelists", false, "Fall back to scraped place-name lists")
	cmd.Flags().BoolVar(&opts.noSnapshot, "no-snapshot", false, "Do not store the result in the database")
	cmd.Flags().BoolVar(&opts.backup, "backup", false, "Back up the database before replacing the snapshot")
	return cmd
}

// fetchNameLists scrapes every name list, behind a spinner when interactive
func (a *app) fetchNameLists(ctx context.Context) ([]models.NameList, error) {
	database, err := a.openDB()
	if err != nil {
		return nil, err
	}
	defer database.Close()

	scraper := api.NewNameListScraper(a.wikiClient(database, false), a.logger)

	var lists []models.NameList
	fetch := func() {
		lists = scraper.FetchAll(ctx, api.NameSources)
	}

	if a.interactive() {
		if err := spinner.New().
			Title("Fetching place-name lists...").
			Action(fetch).
			Run(); err != nil {
			return nil, fmt.Errorf("spinner error: %w", err)
		}
	} else {
		fetch()
	}
	return lists, nil
}

func (a *app) runClassify(ctx context.Context, opts classifyOptions) error {
	in := opts.in
	if in == "" {
		in = a.cfg.RawDatasetPath
	}
	out := opts.out
	if out == "" {
		out = a.cfg.DatasetPath
	}

	records, err := dataset.Load(in)
	if err != nil {
		return err
	}

	classifierOpts := []classify.Option{classify.WithLogger(a.logger)}
	if opts.merge {
		lists, err := a.fetchNameLists(ctx)
		if err != nil {
			return err
		}
		classifierOpts = append(classifierOpts, classify.WithNameLists(lists))
	}

	enriched, summary := classify.New(classifierOpts...).ClassifyAll(records)
	a.metrics.ObserveClassified(summary)
	defer a.writeMetrics()

	if err := dataset.Save(out, enriched); err != nil {
		return err
	}

	if !opts.noSnapshot {
		if opts.backup {
			backup, err := ui.ExportDatabaseBackup(a.cfg.DBPath)
			if err != nil {
				a.logger.Warn("Backup failed", "error", err)
			} else {
				a.logger.Info("Backed up database", "path", backup)
			}
		}
		database, err := a.openDB()
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.ReplaceCounties(enriched); err != nil {
			return err
		}
	}

	ui.PrintHeader(a.out, "County Origins", fmt.Sprintf("%d counties classified", len(enriched)))
	ui.PrintCategoryTable(a.out, summary)
	ui.PrintSuccess(a.out, fmt.Sprintf("Wrote %s", out))
	return nil
}
