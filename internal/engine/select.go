package engine

import (
	"fmt"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
)

// Selection records the outcome of engine selection.
type Selection struct {
	Engine Engine
	// FellBack is true when the primary engine was requested or
	// implied but unavailable, and the fallback was chosen instead.
	FellBack bool
	// Notice is a user-facing message explaining a fallback, empty
	// otherwise.
	Notice string
}

// Select picks the engine for a session. The primary engine is probed
// once; on absence the selector deterministically falls back. An
// explicit fallback preference skips the probe entirely.
//
// Selection only fails when no engine is reachable at all.
func Select(pref domain.EnginePreference, primary, fallback Engine) (*Selection, error) {
	if pref == domain.PreferFallback {
		if err := fallback.IsAvailable(); err != nil {
			return nil, domain.ErrNoEngine
		}
		return &Selection{Engine: fallback}, nil
	}

	if err := primary.IsAvailable(); err == nil {
		return &Selection{Engine: primary}, nil
	}

	if err := fallback.IsAvailable(); err != nil {
		return nil, domain.ErrNoEngine
	}

	sel := &Selection{
		Engine:   fallback,
		FellBack: true,
		Notice:   fmt.Sprintf("%s not available, falling back to %s", primary.Name(), fallback.Name()),
	}
	return sel, nil
}
