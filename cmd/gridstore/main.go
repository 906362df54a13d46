package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/gridstore/pkg/config"
	"github.com/ajitpratap0/gridstore/pkg/logger"
	"github.com/ajitpratap0/gridstore/pkg/metrics"
	"github.com/ajitpratap0/gridstore/pkg/storage"
)

var version = "0.1.0"

// app carries state shared by every command once the root has configured it.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.EngineConfig
	collector  *metrics.Collector
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "gridstore",
		Short: "Gridstore - adaptive columnar storage for spreadsheet tables",
		Long: `Gridstore loads delimited text into typed column storages that keep
per-cell errors alongside values, reports how each column is stored and
exports table snapshots as Arrow IPC or JSON lines.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to YAML configuration (GRIDSTORE_* variables override it)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the configuration")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Gridstore v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newConfigCmd(a))
	return root
}

// setup loads configuration and installs the logger and metrics collector.
func (a *app) setup() error {
	cfg, err := config.LoadWithViper(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if err := logger.Init(cfg.Logging.LoggerConfig()); err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.Metrics.Enabled {
		a.collector = metrics.NewCollector(cfg.Metrics.Namespace)
		storage.SetCollector(a.collector)
	} else {
		storage.SetCollector(nil)
	}
	logger.Debug("configuration loaded",
		zap.String("path", a.configPath),
		zap.String("log_level", cfg.Logging.Level),
		zap.Bool("metrics", cfg.Metrics.Enabled))
	return nil
}
