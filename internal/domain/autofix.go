package domain

// MaxFixAttempts caps the fixer/re-review cycle. The cap is fixed;
// it is the sole resource bound in the orchestration layer.
const MaxFixAttempts = 2

// TerminatedReason records why an auto-fix session ended.
type TerminatedReason string

const (
	// TerminatedConverged means zero critical findings remained.
	TerminatedConverged TerminatedReason = "converged"
	// TerminatedExhausted means critical findings remained after the
	// final permitted fix attempt.
	TerminatedExhausted TerminatedReason = "exhausted"
	// TerminatedNoCritical means the initial review had no critical
	// findings, so the fixer was never invoked.
	TerminatedNoCritical TerminatedReason = "no_critical"
)

// AutoFixSession summarizes a completed auto-fix loop.
// Invariant: AttemptsUsed is always in {0, 1, 2}.
type AutoFixSession struct {
	AttemptsUsed      int
	RemainingCritical []Finding
	TerminatedReason  TerminatedReason
}
