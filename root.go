package main

import (
	"context"
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"signalboard/config"
	"signalboard/database"
	"signalboard/loader"
	"signalboard/logging"
	"signalboard/pipeline"
)

// Global flag values.
var (
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool
	dataFlags  []string
)

// cfg is the effective configuration, resolved before any subcommand runs.
var cfg *config.Config

// rootCmd is the base command for signalboard.
var rootCmd = &cobra.Command{
	Use:   "signalboard",
	Short: "Aggregate and render the HeadwayHQ themed-signal export",
	Long: `Signalboard loads signals_by_theme.json, the export produced by the
signal grouping step, and turns it into summary cards, theme and priority
charts and a collapsible per-theme table. It can serve the dashboard over
HTTP, print a terminal summary or write a static HTML page.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if noColor {
			color.NoColor = true
		}
		c, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		cfg = c
		logging.Setup(os.Stderr, logging.Level(verbose, quiet, cfg.LogLevel))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.FileName, "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringArrayVar(&dataFlags, "data", nil, "export candidate path or URL, tried in order (repeatable)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfig layers the config file, the environment and the flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); err != nil {
			return nil, exitError(ExitInvalidArgs, "signalboard: config: %v", err)
		}
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "signalboard: config: %v", err)
	}
	c.ApplyEnv(os.Getenv)
	if len(dataFlags) > 0 {
		c.Data = append([]string(nil), dataFlags...)
	}
	if err := config.Validate(c); err != nil {
		return nil, exitError(ExitInvalidArgs, "signalboard: invalid config:\n%v", err)
	}
	return c, nil
}

// newBoard builds the pipeline. The signal index is opened only when
// withIndex is set; the caller closes it.
func newBoard(c *config.Config, withIndex bool) (*pipeline.Board, *database.Index, error) {
	var idx *database.Index
	var indexer pipeline.Indexer
	if withIndex {
		var err error
		idx, err = database.Open(c.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		indexer = idx
	}
	return pipeline.NewBoard(loader.New(c), indexer, c.Policy(), c.Regions.Layout()), idx, nil
}

// loadOnce runs the pipeline a single time for the one-shot commands.
func loadOnce(ctx context.Context, c *config.Config) (*pipeline.Board, *pipeline.Snapshot, error) {
	board, _, err := newBoard(c, false)
	if err != nil {
		return nil, nil, err
	}
	snap, err := board.Reload(ctx)
	if err != nil {
		if loader.IsTerminal(err) || errors.Is(err, context.Canceled) {
			return nil, nil, exitError(ExitNoData, "%s", pipeline.FailureMessage(err))
		}
		return nil, nil, err
	}
	return board, snap, nil
}
