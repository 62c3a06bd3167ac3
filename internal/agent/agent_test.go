package agent

import (
	"context"
	"errors"
	"testing"

	"analyst-agent/internal/analysis"
	"analyst-agent/internal/common/config"
	"analyst-agent/internal/common/logger"
	"analyst-agent/internal/common/observability"
	"analyst-agent/internal/courtdata"
	"analyst-agent/internal/dataset"
	"analyst-agent/internal/pipeline"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedLoader struct {
	table *dataset.Table
}

func (f *fixedLoader) Load(ctx context.Context, sourceURL string) (*dataset.Table, error) {
	return f.table, nil
}

func newTestAgent(t *testing.T, court *courtdata.Tool) *Agent {
	t.Helper()

	log := logger.NewTestLogger(t)
	loader := &fixedLoader{table: &dataset.Table{Films: []dataset.Film{
		{Title: "A", Gross: 2.5e9, Year: 2019, Rank: 1, Peak: 1},
		{Title: "B", Gross: 1.0e9, Year: 2015, Rank: 2, Peak: 5},
	}}}

	router := NewRouter(config.RouterConfig{Timeout: 5000}, log)
	films := pipeline.NewRunner(loader, log)
	return New(router, films, court, &observability.Observability{}, log)
}

func TestAgent_Run_Films(t *testing.T) {
	agent := newTestAgent(t, nil)

	result, err := agent.Run(context.Background(), filmTask)
	require.NoError(t, err)

	answers, ok := result.([]analysis.Answer)
	require.True(t, ok)
	require.Len(t, answers, 3)
	assert.Equal(t, 1, answers[0].Value())
	assert.Equal(t, "A", answers[1].Value())
	assert.InDelta(t, 1.0, answers[2].Coefficient, 1e-9)
}

func TestAgent_Run_Court(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT court").WillReturnRows(
		sqlmock.NewRows([]string{"court"}).AddRow("33_10"),
	)

	agent := newTestAgent(t, courtdata.NewTool(db, logger.NewNoOpLogger()))

	result, err := agent.Run(context.Background(), "Using the Indian high court dataset: SELECT court FROM judgments LIMIT 1")
	require.NoError(t, err)

	tabular, ok := result.(*courtdata.Result)
	require.True(t, ok)
	assert.Equal(t, []string{"court"}, tabular.Columns)
}

func TestAgent_Run_CourtQueryFailureIsTextPayload(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("syntax error"))

	agent := newTestAgent(t, courtdata.NewTool(db, logger.NewNoOpLogger()))

	result, err := agent.Run(context.Background(), "SELECT nonsense FROM judgments")
	require.NoError(t, err)

	text, ok := result.(string)
	require.True(t, ok)
	assert.Contains(t, text, "Error executing court data query")
}

func TestAgent_Run_CourtToolUnavailable(t *testing.T) {
	agent := newTestAgent(t, nil)

	_, err := agent.Run(context.Background(), "SELECT court FROM judgments")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCourtToolUnavailable)
}

func TestAgent_Run_UnroutableTask(t *testing.T) {
	agent := newTestAgent(t, nil)

	_, err := agent.Run(context.Background(), "no url and no questions here")
	require.Error(t, err)
}
