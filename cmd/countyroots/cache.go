package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the fetched page cache",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cached pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := a.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			pages, err := database.ListPages()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(pages) == 0 {
				fmt.Fprintln(w, "No cached pages.")
				return nil
			}
			for _, p := range pages {
				fmt.Fprintf(w, "%s  %7d bytes  %s\n", p.FetchedAt.Format("2006-01-02 15:04"), p.Bytes, p.URL)
			}
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := a.openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.ClearPages(); err != nil {
				return err
			}
			a.logger.Info("Cleared page cache", "db", a.cfg.DBPath)
			return nil
		},
	}

	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}
