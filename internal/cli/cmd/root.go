// Package cmd provides Cobra CLI commands for nosuspend.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/nosuspend/internal/domain/build"
	"github.com/bnema/nosuspend/internal/infrastructure/config"
	"github.com/bnema/nosuspend/internal/logging"
	"github.com/rs/zerolog"
)

var (
	buildInfo build.Info
	cfg       config.Config

	rootCmd = &cobra.Command{
		Use:   "nosuspend",
		Short: "Keep the system awake while a command runs",
		Long: `Nosuspend prevents the operating system from suspending, hibernating
or dimming the display while a protected operation runs, and restores
the prior power-management behavior afterward.

It talks to whatever power-management authority the platform offers:
session-bus and logind inhibitors on Linux, SetThreadExecutionState on
Windows, caffeinate on macOS. Where nothing can be inhibited it
degrades gracefully with a warning instead of failing.

Use 'nosuspend run -- <command>' to wrap a command, or 'nosuspend
doctor' to see which backend and endpoints were detected.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return nil
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetBuildInfo receives build metadata from main.
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

// commandContext builds the logger from config and attaches it to a
// fresh context.
func commandContext() context.Context {
	logCfg := logging.DefaultConfig()
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		logCfg.Level = level
	}
	if cfg.Logging.Format != "" {
		logCfg.Format = cfg.Logging.Format
	}
	logger := logging.New(logCfg)
	return logging.WithContext(context.Background(), logger)
}
