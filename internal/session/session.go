// Package session drives a single review from raw arguments to a
// presented result.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/richhaase/agentic-review-orchestrator/internal/autofix"
	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
	"github.com/richhaase/agentic-review-orchestrator/internal/engine"
	"github.com/richhaase/agentic-review-orchestrator/internal/executor"
	"github.com/richhaase/agentic-review-orchestrator/internal/reference"
	"github.com/richhaase/agentic-review-orchestrator/internal/resolver"
	"github.com/richhaase/agentic-review-orchestrator/internal/sink"
	"github.com/richhaase/agentic-review-orchestrator/internal/terminal"
)

// Capabilities records which optional collaborators are present.
// It is resolved once per session and threaded through the pipeline
// rather than re-probed ad hoc.
type Capabilities struct {
	AdvisorAvailable       bool
	PrimaryEngineAvailable bool
}

// QuestionPrompter surfaces a clarification question and returns the
// user's answer. An empty answer means the user declined; the session
// aborts between phases, which is the only cancellation point besides
// context cancellation.
type QuestionPrompter interface {
	Ask(q domain.Question) (string, error)
}

// OutcomeKind classifies how a session ended.
type OutcomeKind int

const (
	// OutcomeReviewed means the pipeline ran to completion.
	OutcomeReviewed OutcomeKind = iota
	// OutcomeAborted means the user declined to supply clarification.
	OutcomeAborted
)

// Outcome is the session result surfaced to the invoking workflow.
type Outcome struct {
	Kind OutcomeKind

	// Result is the latest review result (interactive and summary
	// modes both set it).
	Result *domain.ReviewResult

	// ArtifactPath is set in interactive mode.
	ArtifactPath string

	// FixSession and Summary are set in auto-fix (summary) mode.
	FixSession *domain.AutoFixSession
	Summary    string
}

// Session wires the collaborators for one review run. A session is
// a strictly sequential pipeline: exactly one external call is in
// flight at any time. Independent sessions may run concurrently; they
// share nothing mutable.
type Session struct {
	Resolver  resolver.Resolver
	Prompter  QuestionPrompter
	Primary   engine.Engine
	Fallback  engine.Engine
	Collector *reference.Collector
	Fixer     autofix.Fixer
	Presenter sink.Presenter
	Logger    *terminal.Logger
	TempDir   string

	// Timeout bounds each engine invocation. Zero means no bound.
	Timeout time.Duration
}

// Run executes the full pipeline for one request.
func (s *Session) Run(ctx context.Context, req domain.ReviewRequest) (*Outcome, error) {
	rc, aborted, err := s.resolveContext(ctx, req.Targets)
	if err != nil {
		return nil, err
	}
	if aborted {
		return &Outcome{Kind: OutcomeAborted}, nil
	}

	caps := Capabilities{AdvisorAvailable: rc.AdvisorDetected}
	s.Collector.AdvisorAvailable = caps.AdvisorAvailable

	sel, err := engine.Select(req.Preference, s.Primary, s.Fallback)
	if err != nil {
		return nil, err
	}
	caps.PrimaryEngineAvailable = !sel.FellBack
	if sel.Notice != "" {
		s.Logger.Log(sel.Notice, terminal.StyleWarning)
	}
	s.Logger.Debugf("Engine: %s, advisor available: %v", sel.Engine.Name(), caps.AdvisorAvailable)

	refs := s.Collector.Collect(ctx, rc.Kind, rc.TargetFiles)
	s.Logger.Debugf("References: %d rule docs, %d spec docs", len(refs.Rules), len(refs.Specs))

	job := executor.BuildJob(rc.Kind, rc.TargetFiles, refs)

	result, err := s.executeWithRetry(ctx, job, sel.Engine, 0)
	if err != nil {
		return nil, err
	}

	if req.AutoFix {
		return s.runSummaryMode(ctx, job, sel.Engine, result)
	}
	return s.runInteractiveMode(ctx, rc, sel.Engine, refs, result)
}

// resolveContext drives the needs-input negotiation loop. The loop is
// unbounded; it terminates only when the resolver reports resolved or
// the user declines to answer.
func (s *Session) resolveContext(ctx context.Context, targets []string) (*domain.ResolvedContext, bool, error) {
	inputs := append([]string(nil), targets...)

	for {
		rc, err := s.Resolver.Resolve(ctx, inputs)
		if err != nil {
			return nil, false, err
		}
		if rc.Status == domain.StatusResolved {
			return rc, false, nil
		}

		for _, q := range rc.OpenQuestions {
			answer, err := s.Prompter.Ask(q)
			if err != nil {
				return nil, false, err
			}
			if answer == "" {
				s.Logger.Log("Review cancelled, no answer provided", terminal.StyleDim)
				return nil, true, nil
			}
			inputs = append(inputs, answer)
		}
	}
}

// executeWithRetry runs the executor, retrying exactly once with the
// identical job when the engine output is malformed. The second
// failure is fatal and carries the raw output.
func (s *Session) executeWithRetry(ctx context.Context, job string, eng engine.Engine, attempt int) (*domain.ReviewResult, error) {
	var result *domain.ReviewResult

	run := func() error {
		runCtx := ctx
		if s.Timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, s.Timeout)
			defer cancel()
		}
		var err error
		result, err = executor.Execute(runCtx, job, eng, attempt)
		return err
	}

	spinner := terminal.NewPhaseSpinner(fmt.Sprintf("Review (%s)", eng.Name()))
	err := spinner.Wrap(ctx, run)

	var malformed *domain.MalformedOutputError
	if errors.As(err, &malformed) {
		s.Logger.Logf(terminal.StyleWarning, "Engine output unparseable, retrying once with the identical job")
		spinner = terminal.NewPhaseSpinner(fmt.Sprintf("Review retry (%s)", eng.Name()))
		err = spinner.Wrap(ctx, run)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// runSummaryMode drives the auto-fix loop and renders the summary
// report. Control returns to the invoking workflow without further
// interaction.
func (s *Session) runSummaryMode(ctx context.Context, job string, eng engine.Engine, initial *domain.ReviewResult) (*Outcome, error) {
	controller := autofix.NewController(s.Fixer, s.Logger)

	reReview := func(ctx context.Context, attempt int) (*domain.ReviewResult, error) {
		return s.executeWithRetry(ctx, job, eng, attempt)
	}

	fixSession, history, err := controller.Run(ctx, initial, reReview)
	if err != nil {
		return nil, err
	}

	final := history[len(history)-1]
	return &Outcome{
		Kind:       OutcomeReviewed,
		Result:     &final,
		FixSession: fixSession,
		Summary:    sink.RenderSummary(fixSession, history),
	}, nil
}

// runInteractiveMode persists the result artifact and hands it to the
// external presenter.
func (s *Session) runInteractiveMode(ctx context.Context, rc *domain.ResolvedContext, eng engine.Engine, refs domain.ReferenceSet, result *domain.ReviewResult) (*Outcome, error) {
	meta := sink.Metadata{
		ReviewType:    string(rc.Kind),
		Engine:        eng.Name(),
		TargetFiles:   rc.TargetFiles,
		ReferenceDocs: refs.All(),
		Timestamp:     result.Timestamp,
	}

	path, err := sink.WriteArtifact(s.TempDir, result, meta)
	if err != nil {
		return nil, err
	}
	s.Logger.Logf(terminal.StyleSuccess, "Result written to %s", path)

	if err := s.Presenter.Present(ctx, path); err != nil {
		// The artifact survives a presenter failure; surface and move on.
		s.Logger.Logf(terminal.StyleWarning, "%v", err)
	}

	return &Outcome{
		Kind:         OutcomeReviewed,
		Result:       result,
		ArtifactPath: path,
	}, nil
}
