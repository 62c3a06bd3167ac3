// Package courtdata exposes the SQL pass-through tool for the Indian High
// Court judgments warehouse. It is stateless and does not touch the film
// pipeline's data.
package courtdata

import (
	"context"
	"database/sql"

	stderrors "analyst-agent/internal/common/errors"
	"analyst-agent/internal/common/logger"
)

// Result is a tabular query result ready for JSON serialization.
type Result struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

type Tool struct {
	db     *sql.DB
	logger logger.Logger
}

func NewTool(db *sql.DB, log logger.Logger) *Tool {
	return &Tool{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "court-query"}),
	}
}

// RunQuery executes the caller's SQL verbatim and returns all rows. Byte
// columns come back as strings so the result serializes cleanly.
func (t *Tool) RunQuery(ctx context.Context, query string) (*Result, error) {
	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		t.logger.WithError(err).Error("query execution failed", nil)
		return nil, stderrors.NewQueryExecutionFailedError(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError(err)
	}

	result := &Result{Columns: cols}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		scanTargets := make([]interface{}, len(cols))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError(err)
		}

		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError(err)
	}

	t.logger.Info("query executed", map[string]interface{}{
		"columns": len(result.Columns),
		"rows":    len(result.Rows),
	})

	return result, nil
}
