package domain

// ResolutionStatus is the outcome of a context-resolution attempt.
type ResolutionStatus string

const (
	StatusResolved   ResolutionStatus = "resolved"
	StatusNeedsInput ResolutionStatus = "needs_input"
)

// QuestionKey classifies a clarification question by what it asks for.
type QuestionKey string

const (
	QuestionType    QuestionKey = "type"
	QuestionFeature QuestionKey = "feature"
	QuestionTarget  QuestionKey = "target"
)

// Question is a single clarification the resolver needs answered
// before the review can proceed. Options may be empty for free-form
// answers (e.g. a path).
type Question struct {
	Key     QuestionKey
	Message string
	Options []string
}

// ResolvedContext is the structured result of context resolution.
// Invariant: Status == StatusResolved implies Kind and TargetFiles are
// both non-empty.
type ResolvedContext struct {
	Status          ResolutionStatus
	Kind            ReviewKind
	TargetFiles     []string
	Features        []string
	OpenQuestions   []Question
	AdvisorDetected bool
}

// IsResolved reports whether the context is complete enough to review.
func (c *ResolvedContext) IsResolved() bool {
	return c.Status == StatusResolved && c.Kind != "" && len(c.TargetFiles) > 0
}

// ReferenceSet holds supporting documents gathered for a review,
// keyed by role. Either list may be empty; an empty set is valid
// input to the executor.
type ReferenceSet struct {
	Rules       []string
	Specs       []string
	CriteriaDoc string
}

// All returns rule documents followed by spec documents, preserving
// collection order.
func (r *ReferenceSet) All() []string {
	all := make([]string, 0, len(r.Rules)+len(r.Specs))
	all = append(all, r.Rules...)
	all = append(all, r.Specs...)
	return all
}

// IsEmpty reports whether the set contains no rule or spec documents.
// The criteria document is tracked separately and does not count.
func (r *ReferenceSet) IsEmpty() bool {
	return len(r.Rules) == 0 && len(r.Specs) == 0
}
