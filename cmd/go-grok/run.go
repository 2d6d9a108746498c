// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-grok/internal/cli"
	gitpkg "github.com/petar-djukic/go-grok/internal/git"
	"github.com/petar-djukic/go-grok/internal/usage"
	"github.com/petar-djukic/go-grok/pkg/coder"
)

// configFromViper assembles the assistant config from flags, environment
// and the config file.
func configFromViper(cmd *cobra.Command) coder.Config {
	return coder.Config{
		APIKey:   viper.GetString("api-key"),
		Model:    viper.GetString("model"),
		Endpoint: viper.GetString("endpoint"),
		Provider: viper.GetString("provider"),
		Region:   viper.GetString("region"),
		Profile:  viper.GetString("profile"),
		Language: viper.GetString("language"),
		LogDir:   viper.GetString("log-dir"),
		VCS:      viper.GetString("vcs"),
		LintCmd:  viper.GetString("lint-cmd"),
		NoGit:    viper.GetBool("no-git"),
		WorkDir:  viper.GetString("workdir"),
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
		Logger:   slog.Default(),
	}
}

// runAssistant builds an Assistant and runs one command with it.
func runAssistant(cmd *cobra.Command, name string, opts coder.Options) error {
	a, err := coder.New(cmd.Context(), configFromViper(cmd))
	if err != nil {
		return err
	}
	return a.Run(cmd.Context(), name, opts)
}

// newAnalyzeCmd creates the "analyze" command.
func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <path>",
		Short: "Analyze code for security, bugs and structure",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := coder.Options{Path: argAt(args, 0)}
			opts.Security, _ = cmd.Flags().GetBool("security")
			opts.Apply, _ = cmd.Flags().GetBool("apply")
			return runAssistant(cmd, "analyze", opts)
		},
	}
	cmd.Flags().BoolP("security", "s", false, "Full OWASP security analysis")
	cmd.Flags().Bool("apply", false, "Apply corrections after the analysis")
	return cmd
}

// newRefactorCmd creates the "refactor" command.
func newRefactorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refactor <path> [instruction]",
		Short: "Refactor code with an optional instruction",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := coder.Options{Path: argAt(args, 0), Instruction: argAt(args, 1)}
			opts.Apply, _ = cmd.Flags().GetBool("apply")
			opts.Backup, _ = cmd.Flags().GetBool("backup")
			opts.Security, _ = cmd.Flags().GetBool("security")
			return runAssistant(cmd, "refactor", opts)
		},
	}
	cmd.Flags().Bool("apply", false, "Write the refactored code")
	cmd.Flags().Bool("backup", false, "Back up before writing (always done when applying)")
	cmd.Flags().BoolP("security", "s", false, "Focus the refactor on security")
	return cmd
}

// newGenerateCmd creates the "generate" command.
func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <instruction>",
		Short: "Generate new code from an instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			return runAssistant(cmd, "generate", coder.Options{Instruction: args[0], Output: output})
		},
	}
	cmd.Flags().StringP("output", "o", "", "File to write the generated code to")
	return cmd
}

// newTestCmd creates the "test" command.
func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <path>",
		Short: "Generate unit tests",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			return runAssistant(cmd, "test", coder.Options{Path: argAt(args, 0), Output: output})
		},
	}
	cmd.Flags().StringP("output", "o", "tests", "Directory for generated tests")
	return cmd
}

// newDocCmd creates the "doc" command.
func newDocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc <path>",
		Short: "Generate inline documentation or Markdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := coder.Options{Path: argAt(args, 0)}
			opts.Format, _ = cmd.Flags().GetString("format")
			opts.Output, _ = cmd.Flags().GetString("output")
			opts.Apply, _ = cmd.Flags().GetBool("apply")
			return runAssistant(cmd, "doc", opts)
		},
	}
	cmd.Flags().String("format", "phpdoc", "Output format: phpdoc or markdown")
	cmd.Flags().StringP("output", "o", "", "Directory for Markdown files")
	cmd.Flags().Bool("apply", false, "Write inline documentation into the files")
	return cmd
}

// newUndoCmd creates the "undo" command.
func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last go-grok checkpoint",
		Long:  "Undo performs a soft reset of the last commit if it was made by go-grok. Changes stay in the working tree.",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := gitpkg.Open(viper.GetString("workdir"))
			if err != nil {
				return fmt.Errorf("opening repository: %w", err)
			}

			if err := repo.Undo(); err != nil {
				return fmt.Errorf("undo failed: %w", err)
			}

			cli.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr()).Success("Reverted last go-grok checkpoint.")
			return nil
		},
	}
}

// newUsageCmd creates the "usage" command.
func newUsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show token usage and cost for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if date, _ := cmd.Flags().GetString("date"); date != "" {
				parsed, err := time.ParseInLocation(time.DateOnly, date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				day = parsed
			}

			dir := viper.GetString("log-dir")
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(viper.GetString("workdir"), dir)
			}
			entries, err := usage.NewLog(dir).ReadDay(day)
			if err != nil {
				return err
			}

			cli.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr()).Usage(day.Format(time.DateOnly), usage.Summarize(entries))
			return nil
		},
	}
	cmd.Flags().String("date", "", "Day to summarize (YYYY-MM-DD, default today)")
	return cmd
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
