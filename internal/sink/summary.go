package sink

import (
	"fmt"
	"strings"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
	"github.com/richhaase/agentic-review-orchestrator/internal/terminal"
)

// RenderSummary renders the auto-fix mode report: per-severity counts
// of the final result, how many criticals the loop fixed, and, when
// the loop exhausted its attempts, the full detail of what remains.
// Control returns to the invoking workflow after this; there is no
// further interaction.
func RenderSummary(session *domain.AutoFixSession, history []domain.ReviewResult) string {
	width := terminal.ReportWidth()
	initial := history[0]
	final := history[len(history)-1]
	counts := domain.CountBySeverity(final.Findings)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("%sReview Summary%s %s(engine: %s, fix attempts: %d/%d)%s",
		terminal.Color(terminal.Bold), terminal.Color(terminal.Reset),
		terminal.Color(terminal.Dim), final.EngineUsed, session.AttemptsUsed, domain.MaxFixAttempts,
		terminal.Color(terminal.Reset)))
	lines = append(lines, terminal.Ruler(width, "─"))

	lines = append(lines, fmt.Sprintf("  Critical:    %d", counts[domain.SeverityCritical]))
	lines = append(lines, fmt.Sprintf("  Quality:     %d", counts[domain.SeverityQuality]))
	lines = append(lines, fmt.Sprintf("  Improvement: %d", counts[domain.SeverityImprovement]))

	fixed := len(initial.CriticalFindings()) - len(session.RemainingCritical)
	if fixed < 0 {
		fixed = 0
	}
	lines = append(lines, fmt.Sprintf("  Critical findings fixed: %d", fixed))

	switch session.TerminatedReason {
	case domain.TerminatedConverged:
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("  %s✓%s All critical findings resolved",
			terminal.Color(terminal.Green), terminal.Color(terminal.Reset)))

	case domain.TerminatedNoCritical:
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("  %s✓%s No critical findings, fixer not invoked",
			terminal.Color(terminal.Green), terminal.Color(terminal.Reset)))

	case domain.TerminatedExhausted:
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("%s✗ Unresolved critical findings%s",
			terminal.Color(terminal.Red), terminal.Color(terminal.Reset)))
		lines = append(lines, terminal.Ruler(width, "─"))
		for _, f := range session.RemainingCritical {
			lines = append(lines, fmt.Sprintf("  %s•%s %s", terminal.Color(terminal.Red), terminal.Color(terminal.Reset), f.Title))
			if f.Location != "" {
				lines = append(lines, fmt.Sprintf("    Location: %s", f.Location))
			}
			if f.Description != "" {
				lines = append(lines, terminal.WrapText(f.Description, width, "    "))
			}
			lines = append(lines, fmt.Sprintf("    %sNot auto-fixable: %s%s",
				terminal.Color(terminal.Dim), notFixableReason(f), terminal.Color(terminal.Reset)))
		}
	}

	return strings.Join(lines, "\n")
}

// notFixableReason states the best-known reason a critical finding
// survived the fix attempts.
func notFixableReason(f domain.Finding) string {
	if f.SuggestedFix == "" {
		return "the engine reported no suggested fix to apply"
	}
	return fmt.Sprintf("still reported after %d fix attempts", domain.MaxFixAttempts)
}
