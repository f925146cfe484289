package executor

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
)

// SummaryCounts holds the per-severity counts from the trailing
// summary section of engine output.
type SummaryCounts struct {
	Critical    int
	Quality     int
	Improvement int
}

// sectionHeaders maps the three-tier section headers to severities.
// Matching is case-insensitive on the first word after "##".
var sectionHeaders = map[string]domain.Severity{
	"critical":    domain.SeverityCritical,
	"quality":     domain.SeverityQuality,
	"improvement": domain.SeverityImprovement,
}

var countRe = regexp.MustCompile(`(?i)^[-*\s]*(critical|quality|improvement)\s*:\s*(\d+)`)

// ParseOutput parses an engine's free-text response into findings
// using the fixed three-tier severity markup plus trailing summary
// counts. Inability to extract at least the summary counts yields a
// MalformedOutputError carrying the raw output.
func ParseOutput(engineName, raw string) ([]domain.Finding, *SummaryCounts, error) {
	var findings []domain.Finding
	var current *domain.Finding
	var severity domain.Severity
	inSummary := false

	counts := &SummaryCounts{}
	found := map[string]bool{}

	flush := func() {
		if current != nil {
			current.Description = strings.TrimSpace(current.Description)
			findings = append(findings, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if heading, ok := strings.CutPrefix(line, "## "); ok {
			flush()
			word := ""
			if fields := strings.Fields(heading); len(fields) > 0 {
				word = strings.ToLower(fields[0])
			}
			if sev, ok := sectionHeaders[word]; ok {
				severity = sev
				inSummary = false
			} else if word == "summary" {
				severity = ""
				inSummary = true
			} else {
				severity = ""
				inSummary = false
			}
			continue
		}

		if inSummary {
			if m := countRe.FindStringSubmatch(line); m != nil {
				n, _ := strconv.Atoi(m[2])
				switch strings.ToLower(m[1]) {
				case "critical":
					counts.Critical = n
				case "quality":
					counts.Quality = n
				case "improvement":
					counts.Improvement = n
				}
				found[strings.ToLower(m[1])] = true
			}
			continue
		}

		if severity == "" {
			continue
		}

		if title, ok := strings.CutPrefix(line, "### "); ok {
			flush()
			current = &domain.Finding{Severity: severity, Title: strings.TrimSpace(title)}
			continue
		}

		if current == nil || line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "location:"):
			current.Location = strings.TrimSpace(line[len("location:"):])
		case strings.HasPrefix(lower, "fix:"):
			current.SuggestedFix = strings.TrimSpace(line[len("fix:"):])
		case strings.HasPrefix(lower, "suggested fix:"):
			current.SuggestedFix = strings.TrimSpace(line[len("suggested fix:"):])
		case strings.HasPrefix(lower, "description:"):
			current.Description = strings.TrimSpace(line[len("description:"):])
		default:
			// Continuation of the description
			if current.Description != "" {
				current.Description += " "
			}
			current.Description += line
		}
	}
	flush()

	// The summary counts are the minimum the executor must extract;
	// without them the output is unusable.
	if !found["critical"] || !found["quality"] || !found["improvement"] {
		return nil, nil, &domain.MalformedOutputError{Engine: engineName, Raw: raw}
	}

	return findings, counts, nil
}
