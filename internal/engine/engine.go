// Package engine provides the review engine boundary and the two
// interchangeable CLI-backed implementations.
package engine

import (
	"context"
)

// Engine represents a backend that can execute a review job.
// Implementations include CodexEngine (primary) and ClaudeEngine
// (fallback).
type Engine interface {
	// Name returns the engine's identifier ("codex", "claude").
	Name() string

	// IsAvailable checks if the engine's backend CLI is installed and
	// accessible. Returns an error if the engine cannot be used.
	IsAvailable() error

	// Execute submits a review prompt and blocks until the engine
	// returns its complete free-text response.
	Execute(ctx context.Context, prompt string) (string, error)
}

// PrimaryName and FallbackName identify the two engine roles.
const (
	PrimaryName  = "codex"
	FallbackName = "claude"
)

// New creates an Engine by name.
func New(name string) (Engine, error) {
	switch name {
	case "codex":
		return NewCodexEngine(), nil
	case "claude":
		return NewClaudeEngine(), nil
	default:
		return nil, errUnknownEngine(name)
	}
}
