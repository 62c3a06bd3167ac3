// Package agent routes a free-text analysis task to one of the two tools
// and returns the tool's JSON-serializable output.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"analyst-agent/internal/common/logger"
	"analyst-agent/internal/common/metrics"
	"analyst-agent/internal/common/observability"
	"analyst-agent/internal/courtdata"
	"analyst-agent/internal/pipeline"
)

// ErrCourtToolUnavailable is returned when no warehouse connection is
// configured and the router selects the SQL tool.
var ErrCourtToolUnavailable = errors.New("court data tool is not configured")

// Agent wires the router to the film pipeline and the court query tool.
type Agent struct {
	router *Router
	films  *pipeline.Runner
	court  *courtdata.Tool // nil when postgres is not configured
	obs    *observability.Observability
	logger logger.Logger
}

func New(router *Router, films *pipeline.Runner, court *courtdata.Tool, obs *observability.Observability, log logger.Logger) *Agent {
	return &Agent{
		router: router,
		films:  films,
		court:  court,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "agent"}),
	}
}

// Run resolves the task to a tool and executes it. The returned value is
// JSON-serializable: an answer list for the film pipeline, a tabular result
// or error text for the court tool.
func (a *Agent) Run(ctx context.Context, task string) (interface{}, error) {
	decision, err := a.router.Decide(ctx, task)
	if err != nil {
		return nil, err
	}

	a.logger.Info("tool selected", map[string]interface{}{
		"tool":      decision.Tool,
		"questions": len(decision.Questions),
	})

	start := time.Now()
	defer func() {
		metrics.RequestDuration.WithLabelValues(decision.Tool).Observe(time.Since(start).Seconds())
		a.obs.RecordTaskDuration(ctx, time.Since(start), decision.Tool)
	}()

	switch decision.Tool {
	case ToolFilms:
		answers := a.films.Run(ctx, decision.URL, decision.Questions)
		a.obs.RecordTaskProcessed(ctx, decision.Tool, "completed")
		return answers, nil

	case ToolCourt:
		if a.court == nil {
			a.obs.RecordTaskProcessed(ctx, decision.Tool, "unavailable")
			return nil, ErrCourtToolUnavailable
		}
		result, err := a.court.RunQuery(ctx, decision.Query)
		if err != nil {
			// Query failures go back as text in the payload, not as a
			// transport-level error.
			a.obs.RecordTaskProcessed(ctx, decision.Tool, "error")
			return fmt.Sprintf("Error executing court data query: %v", err), nil
		}
		a.obs.RecordTaskProcessed(ctx, decision.Tool, "completed")
		return result, nil

	default:
		return nil, fmt.Errorf("unknown tool %q", decision.Tool)
	}
}
