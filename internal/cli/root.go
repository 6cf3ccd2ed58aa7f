// Package cli provides the command-line interface for guardrail.
//
// The CLI is flat: one invocation can describe several generation requests
// through record-opening flags (--client, --server, --models) with
// --defaults inheritance. Flag parsing is therefore disabled on the root
// command and the raw token stream is handed to the argument fold.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lorenzotomasini/guardrail/internal/args"
	"github.com/lorenzotomasini/guardrail/internal/cli/config"
	"github.com/lorenzotomasini/guardrail/internal/framework"
	"github.com/lorenzotomasini/guardrail/internal/runner"
	"github.com/lorenzotomasini/guardrail/pkg/backends/nethttp"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "guardrail [--defaults ...] (--client|--server|--models) [flags ...]",
		Short: "guardrail - specification-driven code generator",
		Long: `guardrail generates client, server, and model source code from an
OpenAPI specification document.

One invocation can carry several generation requests. --client, --server,
and --models each open a new request; --defaults opens a template whose
field values are inherited by the requests that follow it.`,
		Version:            Version,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, tokens []string) error {
			return runGenerate(cmd.Context(), cmd, tokens)
		},
	}

	rootCmd.AddCommand(NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// runGenerate drives one full invocation: fold tokens into argument sets,
// validate them, then hand them to the host runner.
func runGenerate(ctx context.Context, cmd *cobra.Command, tokens []string) error {
	cfg, err := config.Load(os.Getenv("GUARDRAIL_CONFIG"))
	if err != nil {
		return err
	}

	logger := newLogger(cmd, cfg.Verbose)
	if cfg.Verbose {
		if configFile := config.GetConfigFileUsed(); configFile != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", configFile)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	sets, err := args.Fold(tokens, args.FoldOptions{Home: home, Logger: logger})
	if err != nil {
		var unknown *args.UnknownArgumentsError
		if errors.As(err, &unknown) {
			printUsage(cmd.ErrOrStderr())
		}
		return err
	}

	validated, err := args.Validate(sets)
	if err != nil {
		// Help and empty invocations are "show usage" outcomes, not
		// failures.
		if errors.Is(err, args.ErrHelpRequested) || errors.Is(err, args.ErrNoArguments) {
			printUsage(cmd.OutOrStdout())
			return nil
		}
		return err
	}

	resolver := &framework.Resolver{
		VendorDefault: cfg.DefaultFramework,
		Modules:       framework.ModuleResolverFunc(nethttp.ResolveModules),
		Logger:        logger,
	}

	r := runner.New(runner.Config{
		Resolver:        resolver,
		Concurrency:     cfg.Concurrency,
		ContinueOnError: cfg.ContinueOnError,
		Logger:          logger,
	})

	results, err := r.Run(ctx, validated)
	printResults(cmd.OutOrStdout(), results)
	return err
}

// newLogger builds the CLI logger: debug text output to stderr when
// verbose, discard otherwise.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
