package autofix

import (
	"context"
	"errors"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
	"github.com/richhaase/agentic-review-orchestrator/internal/terminal"
)

// ReReviewFunc re-runs the review executor with the identical job and
// returns a fresh result. The attempt number is recorded on the
// result.
type ReReviewFunc func(ctx context.Context, attempt int) (*domain.ReviewResult, error)

// Controller drives the fixer/re-review cycle. The cycle runs at most
// domain.MaxFixAttempts fix attempts; attempts_used increments exactly
// once per entry into the fixing state.
type Controller struct {
	fixer  Fixer
	logger *terminal.Logger
}

// NewController creates a controller around the given fixer.
func NewController(fixer Fixer, logger *terminal.Logger) *Controller {
	return &Controller{fixer: fixer, logger: logger}
}

// Run executes the loop starting from the initial review result.
// It returns the session summary and the full result history (initial
// result first) for audit; callers present only the latest entry.
//
// Fixer failures are surfaced but never abort the loop: the cycle
// proceeds to re-review regardless. A re-review failure ends the loop
// with the last good result.
func (c *Controller) Run(ctx context.Context, initial *domain.ReviewResult, reReview ReReviewFunc) (*domain.AutoFixSession, []domain.ReviewResult, error) {
	history := []domain.ReviewResult{*initial}
	latest := initial

	if !latest.HasCritical() {
		return &domain.AutoFixSession{
			AttemptsUsed:     0,
			TerminatedReason: domain.TerminatedNoCritical,
		}, history, nil
	}

	machine, err := newLoopMachine()
	if err != nil {
		return nil, history, err
	}

	attempts := 0
	for {
		if err := machine.fire(eventFix); err != nil {
			return nil, history, err
		}
		attempts++

		c.logger.Logf(terminal.StylePhase, "Fix attempt %d/%d (%d critical findings)",
			attempts, domain.MaxFixAttempts, len(latest.CriticalFindings()))

		if err := c.fixer.Fix(ctx, latest.CriticalFindings()); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, history, err
			}
			// Surfaced but recoverable: the re-review decides what
			// actually remains broken.
			c.logger.Logf(terminal.StyleWarning, "%v", err)
		}

		if err := machine.fire(eventFixed); err != nil {
			return nil, history, err
		}

		result, err := reReview(ctx, attempts)
		if err != nil {
			c.logger.Logf(terminal.StyleWarning, "Re-review failed, keeping last results: %v", err)
			if err := machine.fire(eventExhaust); err != nil {
				return nil, history, err
			}
			return &domain.AutoFixSession{
				AttemptsUsed:      attempts,
				RemainingCritical: latest.CriticalFindings(),
				TerminatedReason:  domain.TerminatedExhausted,
			}, history, nil
		}

		history = append(history, *result)
		latest = result

		if !latest.HasCritical() {
			if err := machine.fire(eventConverge); err != nil {
				return nil, history, err
			}
			return &domain.AutoFixSession{
				AttemptsUsed:     attempts,
				TerminatedReason: domain.TerminatedConverged,
			}, history, nil
		}

		if attempts >= domain.MaxFixAttempts {
			if err := machine.fire(eventExhaust); err != nil {
				return nil, history, err
			}
			return &domain.AutoFixSession{
				AttemptsUsed:      attempts,
				RemainingCritical: latest.CriticalFindings(),
				TerminatedReason:  domain.TerminatedExhausted,
			}, history, nil
		}
	}
}
