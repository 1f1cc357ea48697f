package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kicad-go/eda-importers/internal/applog"
	"github.com/kicad-go/eda-importers/internal/config"
	"github.com/kicad-go/eda-importers/pkg/diag"
)

var (
	configFile string
	debug      bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kicadtool",
	Short: "KiCad schematic parsing and CADSTAR PCB import tools",
	Long: `kicadtool reads KiCad schematic files and imports CADSTAR PCB
archives into KiCad's board model.`,
	Version:           "0.1.0",
	PersistentPreRunE: loadEnvironment,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "load configuration from FILE (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug-level logging")
	rootCmd.AddCommand(schCmd)
	rootCmd.AddCommand(cadstarCmd)
}

// loadEnvironment builds the shared config/logger pair every subcommand
// reads, following the donor's Before-hook shape of preparing
// configuration and logging ahead of any subcommand Action running.
func loadEnvironment(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if debug {
		cfg.Logging.ConsoleLevel = "debug"
	}
	logger, err = applog.Build(cfg.AppLogConfig())
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	return nil
}

// newSink combines the ambient logger with an in-memory SliceSink, so
// a command can both stream diagnostics to the console/log file as
// they occur and inspect the final accumulated set afterward.
func newSink() *diag.SliceSink {
	slice := diag.NewSliceSink()
	return slice
}

func diagSink(slice *diag.SliceSink) diag.Sink {
	if logger == nil {
		return slice
	}
	return diag.MultiSink{slice, diag.NewZapSink(logger)}
}

// Execute runs the root command, cancelling any in-flight parse or
// import on SIGINT/SIGTERM the same way the cli tooling in this pack's
// retrieval set does for its own long-running conversions.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SilenceUsage = true
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error("command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
