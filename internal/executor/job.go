// Package executor builds deterministic review jobs, submits them
// through the engine boundary, and parses engine output into findings.
package executor

import (
	"fmt"
	"strings"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
)

// outputContract is the fixed output-format section appended to every
// job. The parser in this package is the other half of this contract.
const outputContract = `## Output format

Report findings in exactly three sections, then a summary. Use this structure:

## Critical
### <short finding title>
Location: <path:line, omit if not applicable>
Description: <what is wrong and why it matters>
Fix: <concrete suggested fix, omit if none>

## Quality
(same structure per finding)

## Improvement
(same structure per finding)

## Summary
Critical: <count>
Quality: <count>
Improvement: <count>

Sections with no findings stay empty but the summary counts are mandatory.
Critical means incorrect or unsafe behavior. Quality means a defect that
does not break behavior. Improvement means an optional refinement.`

// kindInstructions carries the per-kind review focus, keyed by review
// kind. The wording is fixed so identical inputs produce identical
// jobs.
var kindInstructions = map[domain.ReviewKind]string{
	domain.KindRequirement: "Review the requirement documents for completeness, consistency, testability, and unstated assumptions.",
	domain.KindDesign:      "Review the design documents for soundness, interface clarity, failure handling, and alignment with the referenced requirements.",
	domain.KindCode:        "Review the code for bugs, security issues, silent failures, and violations of the referenced rules.",
	domain.KindPlan:        "Review the plan documents for ordering problems, missing steps, unrealistic scoping, and unstated risks.",
	domain.KindGeneric:     "Review the documents against the review criteria document for clarity, correctness, and internal consistency.",
}

// BuildJob produces a deterministic, engine-agnostic job description.
// Identical inputs yield a byte-identical job.
func BuildJob(kind domain.ReviewKind, targets []string, refs domain.ReferenceSet) string {
	var b strings.Builder

	b.WriteString("# Review Job\n\n")
	fmt.Fprintf(&b, "Kind: %s\n\n", kind)
	b.WriteString(kindInstructions[kind])
	b.WriteString("\n\n## Targets\n\n")
	for _, t := range targets {
		fmt.Fprintf(&b, "- %s\n", t)
	}

	if !refs.IsEmpty() || refs.CriteriaDoc != "" {
		b.WriteString("\n## References\n")
		if len(refs.Rules) > 0 {
			b.WriteString("\nRule documents (apply these when reviewing):\n")
			for _, r := range refs.Rules {
				fmt.Fprintf(&b, "- %s\n", r)
			}
		}
		if len(refs.Specs) > 0 {
			b.WriteString("\nSpecification documents (review targets against these):\n")
			for _, s := range refs.Specs {
				fmt.Fprintf(&b, "- %s\n", s)
			}
		}
		if refs.CriteriaDoc != "" {
			fmt.Fprintf(&b, "\nReview criteria document: %s\n", refs.CriteriaDoc)
		}
	}

	b.WriteString("\nRead each target and reference file before reviewing.\n\n")
	b.WriteString(outputContract)
	b.WriteString("\n")

	return b.String()
}
