package domain

import (
	"errors"
	"fmt"
)

// ErrNoEngine indicates that neither review engine is installed.
// There is no fallback beyond the fallback; this aborts the session.
var ErrNoEngine = errors.New("no review engine available: install codex or claude and ensure it is in PATH")

// ContextUnavailableError indicates the context resolver is missing or
// produced data the adapter could not interpret. Fatal: the session
// cannot proceed without a resolved context.
type ContextUnavailableError struct {
	Reason string
	Err    error
}

func (e *ContextUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("context resolution unavailable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("context resolution unavailable: %s", e.Reason)
}

func (e *ContextUnavailableError) Unwrap() error { return e.Err }

// MalformedOutputError indicates engine output from which not even the
// summary counts could be extracted. Recoverable once via an
// identical-job retry; fatal on repeat, with the raw output attached
// for diagnosis.
type MalformedOutputError struct {
	Engine string
	Raw    string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("%s produced output with no recognizable summary counts; re-run the review or inspect the raw output", e.Engine)
}

// FixerError indicates the external fixer failed. Recoverable: the
// auto-fix loop proceeds to re-review regardless.
type FixerError struct {
	Err error
}

func (e *FixerError) Error() string {
	return fmt.Sprintf("fixer invocation failed (continuing to re-review): %v", e.Err)
}

func (e *FixerError) Unwrap() error { return e.Err }
