package domain

// Severity is the fixed three-tier classification for findings.
type Severity string

const (
	SeverityCritical    Severity = "critical"
	SeverityQuality     Severity = "quality"
	SeverityImprovement Severity = "improvement"
)

// Severities lists all severities in presentation order.
var Severities = []Severity{SeverityCritical, SeverityQuality, SeverityImprovement}

// Finding represents a single review finding reported by an engine.
type Finding struct {
	Severity     Severity
	Title        string
	Description  string
	Location     string // optional, "path:line" form when present
	SuggestedFix string // optional
}

// FilterBySeverity returns the findings matching the given severity,
// preserving order.
func FilterBySeverity(findings []Finding, sev Severity) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// CountBySeverity tallies findings per severity tier.
func CountBySeverity(findings []Finding) map[Severity]int {
	counts := make(map[Severity]int, len(Severities))
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}
