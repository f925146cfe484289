package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
)

func errUnknownEngine(name string) error {
	return fmt.Errorf("unknown engine %q, supported: codex, claude", name)
}

// RefFileSizeThreshold is the prompt size (in bytes) above which the
// job is written to a temp file instead of passed via stdin. This
// avoids ARG_MAX limits and keeps prompts manageable for LLM context
// windows. Both engines have file system access and can read files
// from the working directory when instructed.
const RefFileSizeThreshold = 100 * 1024 // 100KB

// executeOptions configures command execution for engine CLI
// invocations.
type executeOptions struct {
	// Command is the CLI executable name ("codex", "claude").
	Command string
	// Args are the command-line arguments.
	Args []string
	// Stdin provides input to the command (typically the prompt).
	Stdin io.Reader
	// TempFilePath is a temp file to remove after the run completes.
	TempFilePath string
}

// runCommand executes a CLI command to completion and returns its
// stdout. Each engine call is blocking; exactly one call is in flight
// per session.
//
// It handles:
//   - Setting process group for proper signal handling (Setpgid)
//   - Capturing stderr for error diagnostics
//   - Cleaning up temp files when the run completes
func runCommand(ctx context.Context, opts executeOptions) (string, error) {
	defer cleanupTempFile(opts.TempFilePath)

	// #nosec G204 - Command is always one of the known engine CLIs
	// (codex, claude) passed from trusted code, not user input.
	cmd := exec.CommandContext(ctx, opts.Command, opts.Args...)

	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}

	// Set process group for proper signal handling
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s failed: %w: %s", opts.Command, err, msg)
		}
		return "", fmt.Errorf("%s failed: %w", opts.Command, err)
	}

	return stdout.String(), nil
}

// writePromptToTempFile writes an oversized prompt to a temporary file
// in the working directory so the engine can read it with its own file
// tools. Returns the absolute path; the caller owns cleanup.
func writePromptToTempFile(prompt string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	tempPath := filepath.Join(wd, fmt.Sprintf(".aro-job-%s.md", uuid.New().String()))
	if err := os.WriteFile(tempPath, []byte(prompt), 0600); err != nil {
		return "", fmt.Errorf("failed to write job to temp file: %w", err)
	}

	absPath, err := filepath.Abs(tempPath)
	if err != nil {
		cleanupTempFile(tempPath)
		return "", fmt.Errorf("failed to get absolute path for temp file: %w", err)
	}

	return absPath, nil
}

// refFilePrompt builds the short instruction prompt used when the real
// job has been written to a reference file.
func refFilePrompt(jobPath string) string {
	return fmt.Sprintf("The review job description is in file: %s\nRead the file contents and carry out the review it describes.", jobPath)
}

// cleanupTempFile removes a temporary file. Removal failures are
// logged but non-fatal.
func cleanupTempFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to clean up temp file %s: %v\n", path, err)
	}
}
