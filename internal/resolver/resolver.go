// Package resolver adapts the external context-resolution script into
// a typed boundary for the session.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"syscall"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
)

// Resolver turns raw target arguments into a resolved job descriptor
// or clarification questions. Implementations must be idempotent:
// identical inputs yield identical outputs.
type Resolver interface {
	Resolve(ctx context.Context, targets []string) (*domain.ResolvedContext, error)
}

// DefaultCommand locates the bundled resolver script relative to the
// advisor plugin layout when no resolver_command is configured.
const DefaultCommand = "python3 .claude/skills/review/scripts/resolve_review_context.py"

// rawContext mirrors the resolver script's JSON output.
type rawContext struct {
	Status        string        `json:"status"`
	HasDocAdvisor bool          `json:"has_doc_advisor"`
	Type          string        `json:"type"`
	TargetFiles   []string      `json:"target_files"`
	ReferenceDocs []string      `json:"reference_docs"`
	Features      []string      `json:"features"`
	Questions     []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	Key     string   `json:"key"`
	Message string   `json:"message"`
	Options []string `json:"options"`
}

// ScriptResolver invokes the external resolver command with the raw
// target tokens as arguments and parses its JSON output.
type ScriptResolver struct {
	// Command is the resolver invocation, split on whitespace. The
	// target tokens are appended as trailing arguments.
	Command string
}

// NewScriptResolver creates a resolver around the given command line.
// An empty command falls back to DefaultCommand.
func NewScriptResolver(command string) *ScriptResolver {
	if command == "" {
		command = DefaultCommand
	}
	return &ScriptResolver{Command: command}
}

// Resolve runs the resolver command once. A missing executable or
// output that cannot be interpreted as a resolution result is fatal:
// the session cannot proceed without a resolved context.
func (r *ScriptResolver) Resolve(ctx context.Context, targets []string) (*domain.ResolvedContext, error) {
	parts := strings.Fields(r.Command)
	if len(parts) == 0 {
		return nil, &domain.ContextUnavailableError{Reason: "resolver command is empty"}
	}

	if _, err := exec.LookPath(parts[0]); err != nil {
		return nil, &domain.ContextUnavailableError{
			Reason: fmt.Sprintf("resolver executable %q not found; install it or set resolver_command", parts[0]),
			Err:    err,
		}
	}

	args := append(parts[1:], targets...)
	// #nosec G204 - the resolver command comes from project config,
	// not from review targets.
	cmd := exec.CommandContext(ctx, parts[0], args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.ContextUnavailableError{
			Reason: fmt.Sprintf("resolver exited with an error: %s", strings.TrimSpace(stderr.String())),
			Err:    err,
		}
	}

	return ParseOutput(stdout.Bytes())
}

// ParseOutput decodes and validates the resolver's JSON output.
func ParseOutput(data []byte) (*domain.ResolvedContext, error) {
	var raw rawContext
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &domain.ContextUnavailableError{
			Reason: "resolver produced output that is not valid JSON",
			Err:    err,
		}
	}

	status := domain.ResolutionStatus(raw.Status)
	if status != domain.StatusResolved && status != domain.StatusNeedsInput {
		return nil, &domain.ContextUnavailableError{
			Reason: fmt.Sprintf("resolver reported unknown status %q", raw.Status),
		}
	}

	kind, err := domain.ParseReviewKind(raw.Type)
	if err != nil {
		return nil, &domain.ContextUnavailableError{
			Reason: "resolver reported an unknown review kind",
			Err:    err,
		}
	}

	resolved := &domain.ResolvedContext{
		Status:          status,
		Kind:            kind,
		TargetFiles:     raw.TargetFiles,
		Features:        raw.Features,
		AdvisorDetected: raw.HasDocAdvisor,
	}

	for _, q := range raw.Questions {
		key := domain.QuestionKey(q.Key)
		switch key {
		case domain.QuestionType, domain.QuestionFeature, domain.QuestionTarget:
		default:
			return nil, &domain.ContextUnavailableError{
				Reason: fmt.Sprintf("resolver asked a question with unknown key %q", q.Key),
			}
		}
		resolved.OpenQuestions = append(resolved.OpenQuestions, domain.Question{
			Key:     key,
			Message: q.Message,
			Options: q.Options,
		})
	}

	// A resolved context without kind and targets violates the resolver
	// contract; treat it like any other malformed output.
	if status == domain.StatusResolved && !resolved.IsResolved() {
		return nil, &domain.ContextUnavailableError{
			Reason: "resolver reported resolved status without a kind and target files",
		}
	}

	if status == domain.StatusNeedsInput && len(resolved.OpenQuestions) == 0 {
		return nil, &domain.ContextUnavailableError{
			Reason: "resolver requested input without any questions",
		}
	}

	return resolved, nil
}
