package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/dialogs/internal/cli"
	"github.com/aretw0/dialogs/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dialogs",
	Short: "Dialogs runs turn-based conversations",
	Long: `Dialogs hosts a stack of dialogs per conversation and drives it one turn at a time,
over the terminal or over HTTP, with memory, file or Redis persistence.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("store", "", "Override store.kind (memory, file, redis)")
	rootCmd.PersistentFlags().String("store-dir", "", "Override store.file.dir")
	rootCmd.PersistentFlags().String("redis-addr", "", "Override store.redis.addr")
}

// loadConfig reads --config and applies the command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if kind, _ := cmd.Flags().GetString("store"); kind != "" {
		cfg.Store.Kind = kind
	}
	if dir, _ := cmd.Flags().GetString("store-dir"); dir != "" {
		cfg.Store.File.Dir = dir
	}
	if addr, _ := cmd.Flags().GetString("redis-addr"); addr != "" {
		cfg.Store.Redis.Addr = addr
	}
	return cfg, cfg.Validate()
}

// openRuntime builds the engine for cmd. Callers must Close the runtime.
func openRuntime(cmd *cobra.Command) (*cli.Runtime, config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, nil, err
	}
	level, _ := cmd.Flags().GetString("log-level")
	logger, err := cli.NewLogger(cmd.ErrOrStderr(), cfg, level)
	if err != nil {
		return nil, cfg, nil, err
	}
	rt, err := cli.NewRuntime(cfg, logger)
	if err != nil {
		return nil, cfg, nil, fmt.Errorf("error initializing dialogs: %w", err)
	}
	return rt, cfg, logger, nil
}
