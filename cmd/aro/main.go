// Package main provides the CLI entry point for the agentic review orchestrator.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
)

var (
	engineName string
	useCodex   bool
	useClaude  bool
	autoFix    bool
	timeout    time.Duration
	verbose    bool
	noConfig   bool
	tempDir    string
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "aro [type] [targets...]",
		Short: "Agentic review orchestrator - run AI-assisted reviews of documents and code",
		Long: `Resolve review context, run an AI review engine against the targets, and
present the findings - interactively or as an auto-fix summary.

Exit codes:
  0 - No critical findings
  1 - Critical findings remain
  2 - Error
  130 - Interrupted or cancelled`,
		Args:          cobra.ArbitraryArgs,
		RunE:          runReview,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildVersionString(),
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Configuration flags (defaults are resolved via config.Resolve with precedence: flag > env > config > default)
	rootCmd.Flags().StringVarP(&engineName, "engine", "e", "",
		"Review engine: codex, claude (default: codex with claude fallback, env: ARO_ENGINE)")
	rootCmd.Flags().BoolVar(&useCodex, "codex", false,
		"Use the codex engine (shorthand for --engine codex)")
	rootCmd.Flags().BoolVar(&useClaude, "claude", false,
		"Use the claude engine without probing codex (shorthand for --engine claude)")
	rootCmd.Flags().BoolVar(&autoFix, "auto-fix", false,
		"Automatically fix critical findings and report a summary (env: ARO_AUTO_FIX)")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 0,
		"Timeout per engine invocation (default: 10m, env: ARO_TIMEOUT)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Print progress details as the review runs")
	rootCmd.Flags().BoolVar(&noConfig, "no-config", false,
		"Skip loading .aro.yaml config file")
	rootCmd.Flags().StringVar(&tempDir, "temp-dir", "",
		"Directory for result artifacts (default: system temp dir, env: ARO_TEMP_DIR)")

	if err := rootCmd.Execute(); err != nil {
		// Check if this is an exit code wrapper (not a real error)
		if exitErr, ok := err.(exitCodeError); ok {
			return exitErr.code.Int()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitError.Int()
	}

	return 0
}
