package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xerg-dev/xerg/internal/config"
	"github.com/xerg-dev/xerg/internal/history"
)

// newHistoryCommand builds the "xerg history" reporting subcommand: a
// thin read-only view over the History Store, not part of the core
// search engine.
func newHistoryCommand() *cobra.Command {
	var limit int
	var dbPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := dbPath
			if path == "" {
				home, err := config.HomeDir()
				if err != nil {
					return err
				}
				path = home + "/history.db"
			}

			store := history.Open(path)
			records, err := store.Recent(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range records {
				fmt.Fprintf(out, "%s  %s  pattern=%q root=%q files=%d matches=%d elapsed=%s\n",
					r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Pattern, r.Root,
					r.Stats.FilesProcessed, r.Stats.Matches, r.Stats.Elapsed)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().StringVar(&dbPath, "db", "", "history database path (default $XERG_HOME/history.db)")

	return cmd
}
