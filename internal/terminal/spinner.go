package terminal

import (
	"context"
	"fmt"
	"os"
	"time"
)

const spinnerInterval = 200 * time.Millisecond

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// PhaseSpinner displays an animated spinner while a single blocking
// phase (engine execution, fixer invocation) runs.
type PhaseSpinner struct {
	isTTY bool
	label string
}

// NewPhaseSpinner creates a spinner for the given phase label.
func NewPhaseSpinner(label string) *PhaseSpinner {
	return &PhaseSpinner{
		isTTY: IsStderrTTY(),
		label: label,
	}
}

// Run animates until the context is cancelled. On a non-TTY it just
// blocks silently so callers need no TTY branching.
func (s *PhaseSpinner) Run(ctx context.Context) {
	if !s.isTTY {
		<-ctx.Done()
		return
	}

	idx := 0
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			final := fmt.Sprintf("\r%s %s✓%s %s", tag(Green), Color(Green), Color(Reset), s.label)
			fmt.Fprint(os.Stderr, final+"          \n")
			return

		case <-ticker.C:
			frame := string(spinnerFrames[idx%len(spinnerFrames)])
			line := fmt.Sprintf("\r%s %s%s%s %s", tag(Cyan), Color(Cyan), frame, Color(Reset), s.label)
			fmt.Fprint(os.Stderr, line+"          ")
			idx++
		}
	}
}

// Wrap runs fn while animating the spinner, stopping it when fn
// returns.
func (s *PhaseSpinner) Wrap(ctx context.Context, fn func() error) error {
	spinCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		s.Run(spinCtx)
		close(done)
	}()

	err := fn()
	cancel()
	<-done
	return err
}
