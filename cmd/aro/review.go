package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/richhaase/agentic-review-orchestrator/internal/autofix"
	"github.com/richhaase/agentic-review-orchestrator/internal/config"
	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
	"github.com/richhaase/agentic-review-orchestrator/internal/engine"
	"github.com/richhaase/agentic-review-orchestrator/internal/reference"
	"github.com/richhaase/agentic-review-orchestrator/internal/resolver"
	"github.com/richhaase/agentic-review-orchestrator/internal/session"
	"github.com/richhaase/agentic-review-orchestrator/internal/sink"
	"github.com/richhaase/agentic-review-orchestrator/internal/terminal"
)

// bundledCriteriaFile is the last-resort criteria document shipped
// inside the advisor directory.
const bundledCriteriaFile = "criteria.md"

func runReview(cmd *cobra.Command, args []string) error {
	// Disable colors if stderr is not a TTY
	if !terminal.IsStderrTTY() {
		terminal.DisableColors()
	}

	logger := terminal.NewLogger(verbose)

	if useCodex && useClaude {
		logger.Log("--codex and --claude are mutually exclusive", terminal.StyleError)
		return exitCode(domain.ExitError)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr)
		logger.Log("Interrupted, shutting down...", terminal.StyleWarning)
		cancel()
	}()

	// Load config file (unless --no-config)
	var cfg *config.Config
	if !noConfig {
		result, err := config.LoadWithWarnings()
		if err != nil {
			logger.Logf(terminal.StyleError, "Config error: %v", err)
			return exitCode(domain.ExitError)
		}
		cfg = result.Config
		for _, warning := range result.Warnings {
			logger.Logf(terminal.StyleWarning, "Warning: %s", warning)
		}
	}

	// Build flag state from cobra's Changed() method
	engineFlagSet := cmd.Flags().Changed("engine") || useCodex || useClaude
	flagState := config.FlagState{
		EngineSet:  engineFlagSet,
		AutoFixSet: cmd.Flags().Changed("auto-fix"),
		TimeoutSet: cmd.Flags().Changed("timeout"),
		TempDirSet: cmd.Flags().Changed("temp-dir"),
	}

	envState := config.LoadEnvState()

	flagValues := config.ResolvedConfig{
		Engine:  resolveEngineFlag(),
		AutoFix: autoFix,
		Timeout: timeout,
		TempDir: tempDir,
	}

	// Resolve final configuration (precedence: flags > env vars > config file > defaults)
	resolved := config.Resolve(cfg, envState, flagState, flagValues)

	// Engine preference: an explicit choice (flag, env, or config key)
	// pins the engine; otherwise the selector probes and falls back.
	engineExplicit := engineFlagSet || envState.EngineSet || (cfg != nil && cfg.Engine != nil)
	pref := domain.PreferUnspecified
	if engineExplicit {
		if resolved.Engine == engine.FallbackName {
			pref = domain.PreferFallback
		} else {
			pref = domain.PreferPrimary
		}
	}

	primary, err := engine.New(engine.PrimaryName)
	if err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitError)
	}
	fallback, err := engine.New(engine.FallbackName)
	if err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitError)
	}

	root, err := config.FindProjectRoot()
	if err != nil {
		// Reviews of loose files outside a project still work; the
		// advisor and saved criteria simply won't be found.
		root = "."
		logger.Debugf("No project root found, using current directory")
	}

	advisor := reference.NewScriptAdvisor(root, resolved.AdvisorDir)
	collector := &reference.Collector{
		Root:                root,
		Rules:               advisor,
		Specs:               advisor,
		AdvisorAvailable:    reference.AdvisorAvailable(root, resolved.AdvisorDir),
		SavedCriteriaPath:   filepath.Join(root, resolved.CriteriaPath),
		BundledCriteriaPath: filepath.Join(root, resolved.AdvisorDir, bundledCriteriaFile),
	}

	sess := &session.Session{
		Resolver:  resolver.NewScriptResolver(resolved.ResolverCommand),
		Prompter:  newStdinPrompter(),
		Primary:   primary,
		Fallback:  fallback,
		Collector: collector,
		Fixer:     autofix.NewCommandFixer(resolved.FixCommand),
		Presenter: &sink.CommandPresenter{Command: resolved.PresenterCommand},
		Logger:    logger,
		TempDir:   resolved.TempDir,
		Timeout:   resolved.Timeout,
	}

	req := domain.ReviewRequest{
		Targets:    args,
		Preference: pref,
		AutoFix:    resolved.AutoFix,
	}
	if len(args) > 0 {
		if kind, err := domain.ParseReviewKind(args[0]); err == nil && kind != "" {
			req.Kind = kind
		}
	}

	outcome, err := sess.Run(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return exitCode(domain.ExitInterrupted)
		}
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitError)
	}

	return exitCode(outcomeExitCode(outcome))
}

// resolveEngineFlag collapses the engine shorthand flags and --engine
// into a single engine name for config resolution.
func resolveEngineFlag() string {
	switch {
	case useCodex:
		return engine.PrimaryName
	case useClaude:
		return engine.FallbackName
	default:
		return engineName
	}
}

// outcomeExitCode maps a session outcome to the process exit code.
// Only critical findings fail the review; quality and improvement
// findings are advisory.
func outcomeExitCode(outcome *session.Outcome) domain.ExitCode {
	if outcome.Kind == session.OutcomeAborted {
		return domain.ExitInterrupted
	}
	if outcome.Summary != "" {
		fmt.Println(outcome.Summary)
	}
	if outcome.Result != nil && outcome.Result.HasCritical() {
		return domain.ExitFindings
	}
	return domain.ExitClean
}
