package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"analyst-agent/internal/common/config"
	stderrors "analyst-agent/internal/common/errors"
	"analyst-agent/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDatasetConfig() config.DatasetConfig {
	return config.DatasetConfig{
		FetchTimeout: 5000,
		MaxBodyBytes: 1 << 20,
		UserAgent:    "analyst-agent-test/1.0",
	}
}

func TestLoader_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleHTML))
	}))
	defer srv.Close()

	loader := NewLoader(testDatasetConfig(), logger.NewTestLogger(t))
	table, err := loader.Load(context.Background(), srv.URL)
	require.NoError(t, err)

	require.Len(t, table.Films, 2)
	assert.Equal(t, "Avatar", table.Films[0].Title)
	assert.Equal(t, 0, table.Dropped)
}

func TestLoader_Load_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "no table in document",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html><body>no tables</body></html>"))
			},
		},
		{
			name: "all rows invalid",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<table>
					<tr><th>Rank</th><th>Peak</th><th>Title</th><th>Worldwide gross</th><th>Year</th></tr>
					<tr><td>x</td><td>y</td><td>Ghost</td><td>n/a</td><td>soon</td></tr>
				</table>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			loader := NewLoader(testDatasetConfig(), logger.NewTestLogger(t))
			_, err := loader.Load(context.Background(), srv.URL)
			require.Error(t, err)
			assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeAcquisitionFailed))
		})
	}
}

func TestLoader_Load_Unreachable(t *testing.T) {
	loader := NewLoader(testDatasetConfig(), logger.NewNoOpLogger())
	_, err := loader.Load(context.Background(), "http://127.0.0.1:1/none")
	require.Error(t, err)
	assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeAcquisitionFailed))
}
