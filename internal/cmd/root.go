// Package cmd builds the xerg cobra command tree: the root search
// command and the history reporting subcommand.
package cmd

import (
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/xerg-dev/xerg/internal/engine"
	"github.com/xerg-dev/xerg/internal/orchestrator"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

// NewRootCommand builds the xerg root command: pattern and optional path
// positionals, plus the core and ambient flags.
func NewRootCommand() *cobra.Command {
	var (
		colorName     string
		stats         bool
		xtreme        bool
		configPath    string
		verbose       bool
		historyPath   string
		noHistory     bool
		reportPath    string
		reportHTML    bool
		watch         bool
		watchDebounce time.Duration
	)

	cmd := &cobra.Command{
		Use:          "xerg <pattern> [path]",
		Short:        "Recursive parallel pattern search",
		Long:         `xerg searches files beneath path (default ".") for lines matching pattern, using a parallel worker pool for multi-file runs.`,
		Version:      Version,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			color, err := engine.ParseColor(colorName)
			if err != nil {
				return err
			}

			root := "."
			if len(args) == 2 {
				root = args[1]
			}

			overrides := &engine.Config{
				Pattern:       args[0],
				Root:          root,
				Color:         color,
				Stats:         stats,
				Xtreme:        xtreme,
				Verbose:       verbose,
				HistoryPath:   historyPath,
				ReportPath:    reportPath,
				ReportHTML:    reportHTML,
				Watch:         watch,
				WatchDebounce: watchDebounce,
			}
			if noHistory {
				overrides.HistoryPath = ""
			}

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)

			code := orchestrator.Run(configPath, overrides, cmd.OutOrStdout(), cmd.ErrOrStderr(), interrupt)
			if code != orchestrator.ExitMatched {
				cmd.SilenceErrors = true
				return &exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&colorName, "color", "", "highlight matches: red, green, blue, bold")
	cmd.Flags().BoolVar(&stats, "stats", false, "print a per-file and summary line count")
	cmd.Flags().BoolVarP(&xtreme, "xtreme", "x", false, "bypass buffering and write matches directly to stdout")
	cmd.Flags().StringVar(&configPath, "config", "", "explicit YAML config file path")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable diagnostic trace logging on stderr")
	cmd.Flags().StringVar(&historyPath, "history", "", "path to the run history database")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "disable history recording for this run")
	cmd.Flags().StringVar(&reportPath, "report", "", "write a Markdown report to this path")
	cmd.Flags().BoolVar(&reportHTML, "report-html", false, "also render the report as HTML")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-run on filesystem changes beneath path")
	cmd.Flags().DurationVar(&watchDebounce, "watch-debounce", 0, "quiet period before a watch re-run (0 uses the configured default)")

	cmd.AddCommand(newHistoryCommand())

	return cmd
}

// exitError carries a non-matched/fatal exit code back to main without
// cobra printing an extra "Error:" line for the common no-matches case.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

// ExitCode extracts the process exit code from an error returned by
// Execute, defaulting to ExitFatalError (2) for any other error.
func ExitCode(err error) int {
	if err == nil {
		return orchestrator.ExitMatched
	}
	if ee, ok := err.(*exitError); ok {
		return ee.code
	}
	return orchestrator.ExitFatalError
}
