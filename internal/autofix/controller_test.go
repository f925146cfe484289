package autofix

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
	"github.com/richhaase/agentic-review-orchestrator/internal/terminal"
)

// stubFixer records invocations and optionally fails.
type stubFixer struct {
	calls    int
	received [][]domain.Finding
	err      error
}

func (s *stubFixer) Fix(_ context.Context, critical []domain.Finding) error {
	s.calls++
	s.received = append(s.received, critical)
	return s.err
}

func criticals(n int) []domain.Finding {
	out := make([]domain.Finding, n)
	for i := range out {
		out[i] = domain.Finding{Severity: domain.SeverityCritical, Title: "c"}
	}
	return out
}

func resultWith(critical int) *domain.ReviewResult {
	findings := criticals(critical)
	findings = append(findings, domain.Finding{Severity: domain.SeverityQuality, Title: "q"})
	return &domain.ReviewResult{Findings: findings, EngineUsed: "stub", Timestamp: time.Now()}
}

// sequenceReReview returns canned results per attempt.
func sequenceReReview(t *testing.T, criticalCounts ...int) ReReviewFunc {
	t.Helper()
	i := 0
	return func(_ context.Context, attempt int) (*domain.ReviewResult, error) {
		if i >= len(criticalCounts) {
			t.Fatalf("unexpected re-review call %d", i+1)
		}
		r := resultWith(criticalCounts[i])
		r.Attempt = attempt
		i++
		return r, nil
	}
}

func newTestController(f Fixer) *Controller {
	return NewController(f, terminal.NewLogger(false))
}

func TestRunNoCriticalSkipsFixer(t *testing.T) {
	fixer := &stubFixer{}
	c := newTestController(fixer)

	session, history, err := c.Run(context.Background(), resultWith(0), sequenceReReview(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.TerminatedReason != domain.TerminatedNoCritical {
		t.Errorf("reason = %q, want no_critical", session.TerminatedReason)
	}
	if session.AttemptsUsed != 0 {
		t.Errorf("attempts = %d, want 0", session.AttemptsUsed)
	}
	if fixer.calls != 0 {
		t.Errorf("fixer called %d times, want 0", fixer.calls)
	}
	if len(history) != 1 {
		t.Errorf("history = %d entries, want 1", len(history))
	}
}

func TestRunConvergesAfterTwoAttempts(t *testing.T) {
	// Critical counts 3 -> 1 -> 0: converged with both attempts used.
	fixer := &stubFixer{}
	c := newTestController(fixer)

	session, history, err := c.Run(context.Background(), resultWith(3), sequenceReReview(t, 1, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.TerminatedReason != domain.TerminatedConverged {
		t.Errorf("reason = %q, want converged", session.TerminatedReason)
	}
	if session.AttemptsUsed != 2 {
		t.Errorf("attempts = %d, want 2", session.AttemptsUsed)
	}
	if len(session.RemainingCritical) != 0 {
		t.Errorf("remaining = %v, want none", session.RemainingCritical)
	}
	if len(history) != 3 {
		t.Errorf("history = %d entries, want 3", len(history))
	}
	// Only critical findings reach the fixer
	if len(fixer.received[0]) != 3 || len(fixer.received[1]) != 1 {
		t.Errorf("fixer received %d then %d findings, want 3 then 1",
			len(fixer.received[0]), len(fixer.received[1]))
	}
}

func TestRunConvergesFirstAttempt(t *testing.T) {
	fixer := &stubFixer{}
	c := newTestController(fixer)

	session, _, err := c.Run(context.Background(), resultWith(2), sequenceReReview(t, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.TerminatedReason != domain.TerminatedConverged {
		t.Errorf("reason = %q, want converged", session.TerminatedReason)
	}
	if session.AttemptsUsed != 1 {
		t.Errorf("attempts = %d, want 1", session.AttemptsUsed)
	}
}

func TestRunExhaustsAtCap(t *testing.T) {
	// Criticals never reach zero: the loop must stop at 2 attempts and
	// carry the remaining criticals verbatim.
	fixer := &stubFixer{}
	c := newTestController(fixer)

	session, history, err := c.Run(context.Background(), resultWith(5), sequenceReReview(t, 4, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.TerminatedReason != domain.TerminatedExhausted {
		t.Errorf("reason = %q, want exhausted", session.TerminatedReason)
	}
	if session.AttemptsUsed != domain.MaxFixAttempts {
		t.Errorf("attempts = %d, want %d", session.AttemptsUsed, domain.MaxFixAttempts)
	}
	if len(session.RemainingCritical) != 3 {
		t.Errorf("remaining = %d, want 3", len(session.RemainingCritical))
	}
	if fixer.calls != 2 {
		t.Errorf("fixer called %d times, want exactly 2 (never a third)", fixer.calls)
	}
	if len(history) != 3 {
		t.Errorf("history = %d entries, want 3", len(history))
	}
}

func TestRunFixerFailureProceedsToReReview(t *testing.T) {
	fixer := &stubFixer{err: &domain.FixerError{Err: errors.New("patch did not apply")}}
	c := newTestController(fixer)

	session, _, err := c.Run(context.Background(), resultWith(1), sequenceReReview(t, 0))
	if err != nil {
		t.Fatalf("fixer failure must not abort the loop: %v", err)
	}
	if session.TerminatedReason != domain.TerminatedConverged {
		t.Errorf("reason = %q, want converged", session.TerminatedReason)
	}
}

func TestRunReReviewFailureEndsLoop(t *testing.T) {
	fixer := &stubFixer{}
	c := newTestController(fixer)

	reReview := func(_ context.Context, _ int) (*domain.ReviewResult, error) {
		return nil, errors.New("engine went away")
	}

	session, _, err := c.Run(context.Background(), resultWith(2), reReview)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.TerminatedReason != domain.TerminatedExhausted {
		t.Errorf("reason = %q, want exhausted", session.TerminatedReason)
	}
	if len(session.RemainingCritical) != 2 {
		t.Errorf("remaining = %d, want the last known criticals", len(session.RemainingCritical))
	}
}

func TestAttemptsNeverExceedCap(t *testing.T) {
	// Exercise a spread of critical-count sequences; attempts_used must
	// stay within {0, 1, 2} for all of them.
	sequences := [][]int{
		{0},
		{1, 0},
		{3, 1, 0},
		{5, 5, 5},
		{2, 9, 9},
	}

	for _, seq := range sequences {
		fixer := &stubFixer{}
		c := newTestController(fixer)

		i := 0
		reReview := func(_ context.Context, attempt int) (*domain.ReviewResult, error) {
			i++
			if i >= len(seq) {
				i = len(seq) - 1
			}
			r := resultWith(seq[i])
			r.Attempt = attempt
			return r, nil
		}

		session, _, err := c.Run(context.Background(), resultWith(seq[0]), reReview)
		if err != nil {
			t.Fatalf("sequence %v: unexpected error: %v", seq, err)
		}
		if session.AttemptsUsed < 0 || session.AttemptsUsed > domain.MaxFixAttempts {
			t.Errorf("sequence %v: attempts = %d, want within [0, %d]",
				seq, session.AttemptsUsed, domain.MaxFixAttempts)
		}
		if fixer.calls > domain.MaxFixAttempts {
			t.Errorf("sequence %v: fixer called %d times", seq, fixer.calls)
		}
	}
}

func TestLoopMachineRejectsIllegalTransitions(t *testing.T) {
	m, err := newLoopMachine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// fixed is not legal from idle
	if err := m.fire(eventFixed); err == nil {
		t.Error("expected error firing fixed from idle")
	}

	if err := m.fire(eventFix); err != nil {
		t.Fatalf("fix from idle: %v", err)
	}
	if m.current() != StateFixing {
		t.Errorf("state = %q, want fixing", m.current())
	}

	// converge is not legal from fixing
	if err := m.fire(eventConverge); err == nil {
		t.Error("expected error firing converge from fixing")
	}

	if err := m.fire(eventFixed); err != nil {
		t.Fatalf("fixed from fixing: %v", err)
	}
	if err := m.fire(eventConverge); err != nil {
		t.Fatalf("converge from re_reviewing: %v", err)
	}

	// converged is terminal
	if err := m.fire(eventFix); err == nil {
		t.Error("expected error firing fix from converged")
	}
}
