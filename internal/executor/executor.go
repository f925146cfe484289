package executor

import (
	"context"
	"time"

	"github.com/richhaase/agentic-review-orchestrator/internal/domain"
	"github.com/richhaase/agentic-review-orchestrator/internal/engine"
)

// Execute submits a job through the engine boundary and parses the
// response into a ReviewResult. The attempt number is recorded for the
// auto-fix audit trail; it carries no behavior here.
//
// The only side effect is the external engine call itself. A
// MalformedOutputError is recoverable: the caller may retry once with
// the identical job.
func Execute(ctx context.Context, job string, eng engine.Engine, attempt int) (*domain.ReviewResult, error) {
	raw, err := eng.Execute(ctx, job)
	if err != nil {
		return nil, err
	}

	findings, _, err := ParseOutput(eng.Name(), raw)
	if err != nil {
		return nil, err
	}

	return &domain.ReviewResult{
		Findings:   findings,
		EngineUsed: eng.Name(),
		Attempt:    attempt,
		Timestamp:  time.Now(),
	}, nil
}
