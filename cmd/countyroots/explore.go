package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thesavant42/countyroots/internal/config"
	"github.com/thesavant42/countyroots/internal/style"
	"github.com/thesavant42/countyroots/internal/ui"
)

func newExploreCmd(a *app) *cobra.Command {
	var (
		in        string
		year      int
		pick      bool
		askYear   bool
		styleFile string
	)

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Scrub through the years in the terminal",
		Long: `Opens a full-screen year scrubber over the enriched dataset showing how
many counties each highlight layer paints.

Keys: ←/→ one year, [ and ] ten years, p next period preset,
1-9 toggle a layer, q quit.

With --style-out, the style for the final year and layer selection is
written as JSON on exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive() {
				return fmt.Errorf("explore needs an interactive terminal")
			}
			if in == "" {
				in = a.cfg.DatasetPath
			}
			eng, err := a.loadEngine(in, a.cfg.QueryCacheSize)
			if err != nil {
				return err
			}
			filters, err := config.LoadFilters(a.cfg.FiltersFile)
			if err != nil {
				return err
			}

			entries := filters.Entries
			if pick {
				if entries, err = ui.PickCategories(entries); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("year") {
				year = a.cfg.StartYear
			}
			if askYear {
				if year, err = ui.PromptForYear(a.cfg.MinYear, a.cfg.MaxYear, a.cfg.ClampYear(year)); err != nil {
					return err
				}
			}

			final, err := ui.RunExplorer(ui.ExplorerConfig{
				Source:    eng,
				Filters:   entries,
				MinYear:   a.cfg.MinYear,
				MaxYear:   a.cfg.MaxYear,
				StartYear: a.cfg.ClampYear(year),
			})
			if err != nil {
				return err
			}

			if styleFile == "" {
				return nil
			}
			st, err := style.New(eng, filters.FallbackColor).Synthesize(final.Year(), final.Filters())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode style: %w", err)
			}
			if err := os.WriteFile(styleFile, data, 0644); err != nil {
				return fmt.Errorf("failed to write style: %w", err)
			}
			ui.PrintSuccess(a.out, fmt.Sprintf("Wrote %d-layer style for %d to %s", len(st.Layers), final.Year(), styleFile))
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "Enriched dataset (default $COUNTYROOTS_DATASET)")
	cmd.Flags().IntVar(&year, "year", 0, "Starting year (default $COUNTYROOTS_START_YEAR)")
	cmd.Flags().BoolVar(&pick, "pick", false, "Choose enabled layers before starting")
	cmd.Flags().BoolVar(&askYear, "ask-year", false, "Prompt for the starting year")
	cmd.Flags().StringVar(&styleFile, "style-out", "", "Write the final style to this file")
	return cmd
}
