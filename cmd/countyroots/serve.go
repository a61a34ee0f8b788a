package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thesavant42/countyroots/internal/config"
	"github.com/thesavant42/countyroots/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		in        string
		addr      string
		accessLog bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve map styles and cumulative code queries over HTTP",
		Long: `Loads the enriched dataset and serves:

  GET /api/style?year=1850&enabled=French,English,other
  GET /api/codes?year=1850&category=French
  GET /api/years
  GET /api/periods
  GET /api/stats?year=1850
  GET /api/filters
  GET /healthz
  GET /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				in = a.cfg.DatasetPath
			}
			if addr == "" {
				addr = a.cfg.ServerAddr
			}
			return a.runServe(cmd.Context(), in, addr, accessLog)
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "Enriched dataset (default $COUNTYROOTS_DATASET)")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default $COUNTYROOTS_ADDR)")
	cmd.Flags().BoolVar(&accessLog, "access-log", false, "Log every request")
	return cmd
}

func (a *app) runServe(ctx context.Context, in, addr string, accessLog bool) error {
	eng, err := a.loadEngine(in, a.cfg.ServeCacheSize())
	if err != nil {
		return err
	}
	filters, err := config.LoadFilters(a.cfg.FiltersFile)
	if err != nil {
		return err
	}

	srv := server.New(eng, server.Options{
		Filters:   filters,
		Metrics:   a.metrics,
		Logger:    a.logger,
		StartYear: a.cfg.StartYear,
		AccessLog: accessLog,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(addr)
	}()
	a.logger.Info("Serving", "addr", addr, "records", eng.Len(), "filters", len(filters.Entries))

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
		a.logger.Info("Shutting down")
		return srv.Shutdown()
	}
}
