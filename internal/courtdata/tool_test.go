package courtdata

import (
	"context"
	"errors"
	"testing"

	stderrors "analyst-agent/internal/common/errors"
	"analyst-agent/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockTool(t *testing.T) (*Tool, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewTool(db, logger.NewTestLogger(t)), mock
}

func TestTool_RunQuery(t *testing.T) {
	tool, mock := newMockTool(t)

	mock.ExpectQuery("SELECT court, count").WillReturnRows(
		sqlmock.NewRows([]string{"court", "disposals"}).
			AddRow("33_10", int64(120)).
			AddRow("6_13", int64(87)),
	)

	result, err := tool.RunQuery(context.Background(), "SELECT court, count(*) AS disposals FROM judgments GROUP BY court")
	require.NoError(t, err)

	assert.Equal(t, []string{"court", "disposals"}, result.Columns)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "33_10", result.Rows[0][0])
	assert.Equal(t, int64(120), result.Rows[0][1])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTool_RunQuery_ByteColumnsBecomeStrings(t *testing.T) {
	tool, mock := newMockTool(t)

	mock.ExpectQuery("SELECT title").WillReturnRows(
		sqlmock.NewRows([]string{"title"}).AddRow([]byte("State v. Kumar")),
	)

	result, err := tool.RunQuery(context.Background(), "SELECT title FROM judgments LIMIT 1")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "State v. Kumar", result.Rows[0][0])
}

func TestTool_RunQuery_Error(t *testing.T) {
	tool, mock := newMockTool(t)

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("relation does not exist"))

	_, err := tool.RunQuery(context.Background(), "SELECT * FROM missing")
	require.Error(t, err)
	assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeQueryExecutionFailed))
}

func TestTool_RunQuery_EmptyResult(t *testing.T) {
	tool, mock := newMockTool(t)

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"court"}))

	result, err := tool.RunQuery(context.Background(), "SELECT court FROM judgments WHERE 1=0")
	require.NoError(t, err)
	assert.Equal(t, []string{"court"}, result.Columns)
	assert.Empty(t, result.Rows)
}
