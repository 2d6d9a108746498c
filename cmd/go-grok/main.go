// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command go-grok sends source files to a chat-completion API for
// analysis, refactoring, test generation and documentation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "go-grok",
		Short:         "AI assistant for code analysis, refactoring, tests and docs",
		Long:          "go-grok sends source files to a chat-completion API, prints the analysis or rewritten code and, with --apply, writes it back with a timestamped backup and a git checkpoint.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(viper.GetBool("verbose"))
		},
	}

	// Global flags.
	flags := rootCmd.PersistentFlags()
	flags.String("workdir", ".", "Project root directory")
	flags.String("model", "", "Model identifier (GROK_MODEL)")
	flags.String("endpoint", "", "Chat-completions URL")
	flags.String("provider", "http", "Completion provider: http or bedrock")
	flags.String("region", "", "AWS region for the bedrock provider")
	flags.String("profile", "", "AWS profile for the bedrock provider")
	flags.String("language", "php", "Target language: php, go, python, javascript")
	flags.String("log-dir", "logs", "Usage log directory, relative to workdir")
	flags.String("vcs", "exec", "Checkpoint backend: exec or go-git")
	flags.String("lint-cmd", "", "Syntax check run on written files, e.g. \"php -l\"")
	flags.Bool("no-git", false, "Disable repository bootstrap and checkpoints")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	// Bind flags to viper.
	for _, name := range []string{"workdir", "model", "endpoint", "provider", "region", "profile", "language", "log-dir", "vcs", "lint-cmd", "no-git", "verbose"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	// Env vars: GROK_API_KEY, GROK_MODEL, GROK_LOG_DIR, etc.
	viper.SetEnvPrefix("GROK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("api-key", "GROK_API_KEY")

	// Config file.
	viper.SetConfigName(".go-grok")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newRefactorCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newTestCmd())
	rootCmd.AddCommand(newDocCmd())
	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newUsageCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setupLogger installs a text slog handler on stderr.
func setupLogger(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print go-grok version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "go-grok %s\n", version)
		},
	}
}
