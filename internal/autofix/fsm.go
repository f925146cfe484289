// Package autofix runs the bounded fixer/re-review cycle over critical
// findings.
package autofix

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Loop states.
const (
	StateIdle        = "idle"
	StateFixing      = "fixing"
	StateReReviewing = "re_reviewing"
	StateConverged   = "converged"
	StateExhausted   = "exhausted"
)

// Loop events.
const (
	eventFix      = "fix"
	eventFixed    = "fixed"
	eventConverge = "converge"
	eventExhaust  = "exhaust"
)

type loopContext struct{}

// loopMachine enforces the legal transitions of the auto-fix loop.
// Converged and Exhausted are terminal: no event leaves them.
type loopMachine struct {
	interpreter *statekit.Interpreter[loopContext]
}

func newLoopMachine() (*loopMachine, error) {
	builder := statekit.NewMachine[loopContext]("autofix-loop").
		WithInitial(StateIdle).
		WithContext(loopContext{})

	builder.State(StateIdle).
		On(eventFix).Target(StateFixing).
		Done()

	builder.State(StateFixing).
		On(eventFixed).Target(StateReReviewing).
		Done()

	builder.State(StateReReviewing).
		On(eventFix).Target(StateFixing).
		On(eventConverge).Target(StateConverged).
		On(eventExhaust).Target(StateExhausted).
		Done()

	builder.State(StateConverged).Done()
	builder.State(StateExhausted).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build auto-fix state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &loopMachine{interpreter: interpreter}, nil
}

// fire sends an event and fails if it did not cause a transition.
func (m *loopMachine) fire(event string) error {
	before := m.current()
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := m.current()

	if before == after {
		return fmt.Errorf("auto-fix event %q is not valid in state %q", event, before)
	}
	return nil
}

func (m *loopMachine) current() string {
	return string(m.interpreter.State().Value)
}
