package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"futils/cmd/futils/ui"
	"futils/internal/config"
	"futils/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	timeout    time.Duration

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
	styles ui.Styles
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "futils",
	Short: "Small formatting utilities: banner comments, JSON and SQL",
	Long: `futils bundles a few formatting helpers:

  comment      frame text in a banner comment
  format-json  pretty-print JSON files
  format-sql   reformat SQL in an aligned style

Defaults come from a YAML config file (see --config) and FUTILS_* environment
variables; flags always win.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolvePath(configPath)
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		cfg = loaded

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.Initialize(logger, cfg.Logging)
		logging.Get(logging.CategoryConfig).Debug("config loaded", zap.String("path", path))

		styles = ui.DefaultStyles()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $FUTILS_CONFIG or the user config dir)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Operation timeout for SQL checks and watch mode")

	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(formatJSONCmd)
	rootCmd.AddCommand(formatSQLCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on SIGINT/SIGTERM or after d.
// A zero d means no deadline.
func signalContext(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	if d <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	return ctx, func() {
		cancel()
		stop()
	}
}
