package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thesavant42/countyroots/internal/config"
	"github.com/thesavant42/countyroots/internal/engine"
	"github.com/thesavant42/countyroots/internal/models"
	"github.com/thesavant42/countyroots/internal/style"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		in       string
		category string
		asStyle  bool
		stats    bool
	)

	cmd := &cobra.Command{
		Use:   "query YEAR",
		Short: "Print the cumulative codes (or style) for a year",
		Long: `Prints, as JSON, the codes of every county established on or before
YEAR whose origin matches --category. Omit --category or pass "other" for
counties with no recognized origin.

  countyroots query 1850 --category French
  countyroots query 1850 --style
  countyroots query 1850 --stats`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := engine.ParseYear(args[0])
			if err != nil {
				return err
			}
			if in == "" {
				in = a.cfg.DatasetPath
			}
			eng, err := a.loadEngine(in, a.cfg.QueryCacheSize)
			if err != nil {
				return err
			}

			var result any
			switch {
			case asStyle:
				filters, err := config.LoadFilters(a.cfg.FiltersFile)
				if err != nil {
					return err
				}
				st, err := style.New(eng, filters.FallbackColor).Synthesize(year, filters.Entries)
				if err != nil {
					return err
				}
				result = st
			case stats:
				result = eng.Stats(year)
			default:
				codes, err := eng.CumulativeCodes(year, models.ParseSelector(category))
				if err != nil {
					return err
				}
				result = codes
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "Enriched dataset (default $COUNTYROOTS_DATASET)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Origin category (empty or \"other\" for unrecognized)")
	cmd.Flags().BoolVar(&asStyle, "style", false, "Print the full map style instead")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print per-category counts instead")
	cmd.MarkFlagsMutuallyExclusive("style", "stats", "category")
	return cmd
}
