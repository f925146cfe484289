package engine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Compile-time interface check
var _ Engine = (*ClaudeEngine)(nil)

// ClaudeEngine implements the Engine interface for the claude CLI
// backend. It is the fallback engine and is assumed to be present in
// any environment the orchestrator is invoked from.
type ClaudeEngine struct{}

// NewClaudeEngine creates a new ClaudeEngine instance.
func NewClaudeEngine() *ClaudeEngine {
	return &ClaudeEngine{}
}

// Name returns the engine's identifier.
func (c *ClaudeEngine) Name() string {
	return "claude"
}

// IsAvailable checks if the claude CLI is installed and accessible.
func (c *ClaudeEngine) IsAvailable() error {
	_, err := exec.LookPath("claude")
	if err != nil {
		return fmt.Errorf("claude CLI not found in PATH: %w", err)
	}
	return nil
}

// Execute runs a review job using 'claude --print -' with the prompt
// piped via stdin. Oversized prompts use ref-file mode: the job is
// written to a temp file and claude is instructed to read it with its
// Read tool.
func (c *ClaudeEngine) Execute(ctx context.Context, prompt string) (string, error) {
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
		prompt = refFilePrompt(absPath) + "\nUse the Read tool to examine it."
	}

	return runCommand(ctx, executeOptions{
		Command:      "claude",
		Args:         []string{"--print", "-"},
		Stdin:        bytes.NewReader([]byte(prompt)),
		TempFilePath: tempFilePath,
	})
}
