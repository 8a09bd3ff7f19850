package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/zonecheck/internal/cli"
	"github.com/aretw0/zonecheck/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// errViolated makes the process exit with status 1 without printing.
var errViolated = errors.New("violated")

var rootCmd = &cobra.Command{
	Use:   "zonecheck",
	Short: "zonecheck verifies timed input/output automata",
	Long: `zonecheck checks refinement, consistency, determinism and reachability of
timed automata components, and of systems built from them with composition,
conjunction and quotient.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errViolated) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String("config", config.DefaultFile, "Project file")
	fs.String("dir", "", "Directory containing the components (overrides components.dir)")
	fs.String("cache", "", "Verdict cache backend: memory, redis or sqlite (overrides cache.backend)")
	fs.Int("workers", 0, "Determinism worker count (overrides checks.workers)")
	fs.String("log-level", "", "Log level: debug, info, warn or error (overrides log_level)")
	fs.String("log-format", "", "Log format: text or json (overrides log_format)")
	fs.BoolP("quiet", "q", false, "Disable logging")
}

// loadConfig reads the project file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Components.Dir, _ = flags.GetString("dir")
	}
	if flags.Changed("cache") {
		cfg.Cache.Backend, _ = flags.GetString("cache")
	}
	if flags.Changed("workers") {
		cfg.Checks.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newStack builds the engine of the current command.
func newStack(cmd *cobra.Command) (*cli.Stack, *config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	logger := cli.CreateLogger(cfg.Level(), cfg.LogFormat, quiet)
	slog.SetDefault(logger)

	stack, err := cli.NewStack(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return stack, cfg, logger, nil
}
