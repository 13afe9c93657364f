// Package cli implements the agreemshield command line interface: local
// pipeline runs (analyze, train) and remote API commands (list, get,
// stats) built on the SDK client.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agreemshield/agreemshield/internal/config"
	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	ServerAddr string
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "agreemshield",
		Short: "Analyze startup funding agreements for founder-hostile terms",
		Long: `agreemshield inspects term sheets and funding agreements, flags risky
clauses, predicts their future impact, and suggests negotiation points.

Local commands (analyze, train) run the pipeline in-process; remote
commands (list, get, stats) talk to a running agreemshield API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVarP(&opts.ServerAddr, "server", "s", "http://localhost:8080", "agreemshield API server address")

	cmd.AddCommand(
		newAnalyzeCommand(opts),
		newTrainCommand(opts),
		newListCommand(opts),
		newGetCommand(opts),
		newStatsCommand(opts),
		newVersionCommand(),
	)

	return cmd
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the config file when one is given, defaults otherwise.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg, nil
}

// buildLogger creates a console logger at the CLI's verbosity.
func buildLogger(opts *RootOptions) (logging.Logger, error) {
	return logging.NewLogger(logging.LogConfig{
		Level:  opts.LogLevel,
		Format: "console",
	})
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
