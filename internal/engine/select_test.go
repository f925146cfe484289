package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
)

// stubEngine is a test double with controllable availability.
type stubEngine struct {
	name      string
	available bool
	output    string
}

func (s *stubEngine) Name() string { return s.name }

func (s *stubEngine) IsAvailable() error {
	if !s.available {
		return errors.New(s.name + " CLI not found in PATH")
	}
	return nil
}

func (s *stubEngine) Execute(_ context.Context, _ string) (string, error) {
	return s.output, nil
}

func TestSelectPrimaryAvailable(t *testing.T) {
	primary := &stubEngine{name: "codex", available: true}
	fallback := &stubEngine{name: "claude", available: true}

	sel, err := Select(domain.PreferUnspecified, primary, fallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Engine.Name() != "codex" {
		t.Errorf("selected %q, want codex", sel.Engine.Name())
	}
	if sel.FellBack {
		t.Error("FellBack = true, want false")
	}
	if sel.Notice != "" {
		t.Errorf("unexpected notice: %q", sel.Notice)
	}
}

func TestSelectFallsBackWhenPrimaryAbsent(t *testing.T) {
	primary := &stubEngine{name: "codex", available: false}
	fallback := &stubEngine{name: "claude", available: true}

	sel, err := Select(domain.PreferUnspecified, primary, fallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Engine.Name() != "claude" {
		t.Errorf("selected %q, want claude", sel.Engine.Name())
	}
	if !sel.FellBack {
		t.Error("FellBack = false, want true")
	}
	if !strings.Contains(sel.Notice, "falling back") {
		t.Errorf("notice = %q, want fallback notice", sel.Notice)
	}
}

func TestSelectExplicitFallbackSkipsProbe(t *testing.T) {
	// Primary probe would "fail" if invoked; explicit fallback must not
	// touch it.
	primary := &probeCountingEngine{stubEngine: stubEngine{name: "codex", available: false}}
	fallback := &stubEngine{name: "claude", available: true}

	sel, err := Select(domain.PreferFallback, primary, fallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Engine.Name() != "claude" {
		t.Errorf("selected %q, want claude", sel.Engine.Name())
	}
	if sel.FellBack {
		t.Error("explicit fallback preference should not count as a fallback")
	}
	if primary.probes != 0 {
		t.Errorf("primary probed %d times, want 0", primary.probes)
	}
}

func TestSelectNoEngine(t *testing.T) {
	primary := &stubEngine{name: "codex", available: false}
	fallback := &stubEngine{name: "claude", available: false}

	_, err := Select(domain.PreferUnspecified, primary, fallback)
	if !errors.Is(err, domain.ErrNoEngine) {
		t.Fatalf("expected ErrNoEngine, got %v", err)
	}
}

type probeCountingEngine struct {
	stubEngine
	probes int
}

func (p *probeCountingEngine) IsAvailable() error {
	p.probes++
	return p.stubEngine.IsAvailable()
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "codex", input: "codex"},
		{name: "claude", input: "claude"},
		{name: "unknown", input: "gpt", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := New(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := eng.Name(); got != tt.input {
				t.Errorf("Name() = %q, want %q", got, tt.input)
			}
		})
	}
}
