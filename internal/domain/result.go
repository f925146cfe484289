package domain

import "time"

// ReviewResult holds the findings from a single executor invocation.
// A new instance is produced per invocation; the auto-fix session
// retains the full history for audit, but only the latest result is
// presented.
type ReviewResult struct {
	Findings   []Finding
	EngineUsed string
	Attempt    int
	Timestamp  time.Time
}

// CriticalFindings returns the critical-tier findings in order.
func (r *ReviewResult) CriticalFindings() []Finding {
	return FilterBySeverity(r.Findings, SeverityCritical)
}

// HasCritical reports whether any critical findings remain.
func (r *ReviewResult) HasCritical() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
