package autofix

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

// Fixer applies fixes for critical findings. Only critical findings
// are ever handed to it.
type Fixer interface {
	Fix(ctx context.Context, critical []domain.Finding) error
}

// fixInput is the JSON document handed to the external fix command.
type fixInput struct {
	Findings []fixFinding `json:"findings"`
}

type fixFinding struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Location     string `json:"location,omitempty"`
	SuggestedFix string `json:"suggested_fix,omitempty"`
}

// CommandFixer pipes critical findings as JSON to an external fix
// command and waits for it to finish.
type CommandFixer struct {
	// Command is the fixer invocation, split on whitespace.
	Command string
}

var _ Fixer = (*CommandFixer)(nil)

// NewCommandFixer creates a fixer around the given command line.
func NewCommandFixer(command string) *CommandFixer {
	return &CommandFixer{Command: command}
}

// Fix invokes the external fixer. Failures are wrapped as FixerError;
// the loop controller treats them as recoverable.
func (f *CommandFixer) Fix(ctx context.Context, critical []domain.Finding) error {
	parts := strings.Fields(f.Command)
	if len(parts) == 0 {
		return &domain.FixerError{Err: fmt.Errorf("no fix command configured; set fix_command in %s", ".aro.yaml")}
	}

	input := fixInput{Findings: make([]fixFinding, 0, len(critical))}
	for _, c := range critical {
		input.Findings = append(input.Findings, fixFinding{
			Title:        c.Title,
			Description:  c.Description,
			Location:     c.Location,
			SuggestedFix: c.SuggestedFix,
		})
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return &domain.FixerError{Err: fmt.Errorf("failed to encode findings: %w", err)}
	}

	// #nosec G204 - the fix command comes from project config.
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return &domain.FixerError{Err: fmt.Errorf("%w: %s", err, msg)}
		}
		return &domain.FixerError{Err: err}
	}
	return nil
}
