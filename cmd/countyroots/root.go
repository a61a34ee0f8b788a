package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/thesavant42/countyroots/internal/config"
	"github.com/thesavant42/countyroots/internal/dataset"
	"github.com/thesavant42/countyroots/internal/db"
	"github.com/thesavant42/countyroots/internal/engine"
	"github.com/thesavant42/countyroots/internal/metrics"
)

// app carries the state shared by every subcommand
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	metrics *metrics.Metrics
	out     io.Writer

	// persistent flags
	logLevel string
	dbPath   string
	plain    bool
}

func newRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}

	cmd := &cobra.Command{
		Use:   "countyroots",
		Short: "Build and explore the origins of US county names",
		Long: `countyroots scrapes the county list of every US state, classifies each
county by the origin of its name and serves the result as a time-scrubbed
map style.

Typical run:
  countyroots extract     # fetch county tables into data.json
  countyroots classify    # assign origins, write eData.json and the snapshot
  countyroots serve       # answer style and code queries over HTTP`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "Path to SQLite database file")
	cmd.PersistentFlags().BoolVar(&a.plain, "plain", false, "Disable spinners and interactive prompts")

	cmd.AddCommand(
		newExtractCmd(a),
		newClassifyCmd(a),
		newServeCmd(a),
		newExploreCmd(a),
		newQueryCmd(a),
		newCacheCmd(a),
	)
	return cmd
}

// init loads configuration and builds the logger. Flags win over the
// environment.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		ReportTimestamp: true,
		Prefix:          "countyroots",
		Level:           cfg.Level(),
	})
	a.metrics = metrics.New()
	return nil
}

// interactive reports whether spinners and prompts may take the terminal
func (a *app) interactive() bool {
	return !a.plain && isatty.IsTerminal(os.Stdout.Fd())
}

func (a *app) openDB() (*db.DB, error) {
	database, err := db.New(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database, nil
}

// loadEngine reads a classified dataset and indexes it. cacheSize 0 leaves
// the query cache unbounded.
func (a *app) loadEngine(path string, cacheSize int) (*engine.Engine, error) {
	records, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(records,
		engine.WithCacheSize(cacheSize),
		engine.WithObserver(a.metrics),
		engine.WithLogger(a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to index %s: %w", path, err)
	}
	return eng, nil
}

// writeMetrics dumps the registry when a textfile path is configured
func (a *app) writeMetrics() {
	if a.cfg.MetricsFile == "" {
		return
	}
	if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		a.logger.Warn("Could not write metrics", "path", a.cfg.MetricsFile, "error", err)
		return
	}
	a.logger.Debug("Wrote metrics", "path", a.cfg.MetricsFile)
}
