package engine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Compile-time interface check
var _ Engine = (*CodexEngine)(nil)

// CodexEngine implements the Engine interface for the codex CLI
// backend. It is the primary engine: the selector probes for it and
// falls back to claude when it is absent.
type CodexEngine struct{}

// NewCodexEngine creates a new CodexEngine instance.
func NewCodexEngine() *CodexEngine {
	return &CodexEngine{}
}

// Name returns the engine's identifier.
func (c *CodexEngine) Name() string {
	return "codex"
}

// IsAvailable checks if the codex CLI is installed and accessible.
func (c *CodexEngine) IsAvailable() error {
	_, err := exec.LookPath("codex")
	if err != nil {
		return fmt.Errorf("codex CLI not found in PATH: %w", err)
	}
	return nil
}

// Execute runs a review job using 'codex exec -' with the prompt piped
// via stdin. Oversized prompts are written to a reference file that the
// engine reads itself.
func (c *CodexEngine) Execute(ctx context.Context, prompt string) (string, error) {
	if err := c.IsAvailable(); err != nil {
		return "", err
	}

	var tempFilePath string
	if len(prompt) > RefFileSizeThreshold {
		absPath, err := writePromptToTempFile(prompt)
		if err != nil {
			return "", err
		}
		tempFilePath = absPath
		prompt = refFilePrompt(absPath)
	}

	return runCommand(ctx, executeOptions{
		Command:      "codex",
		Args:         []string{"exec", "--color", "never", "-"},
		Stdin:        bytes.NewReader([]byte(prompt)),
		TempFilePath: tempFilePath,
	})
}
