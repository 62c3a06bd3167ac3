package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"analyst-agent/internal/common/config"
	stderrors "analyst-agent/internal/common/errors"
	"analyst-agent/internal/common/httpclient"
	"analyst-agent/internal/common/logger"
	"analyst-agent/internal/common/metrics"
)

// Loader fetches a source URL and produces the normalized film table.
type Loader struct {
	config config.DatasetConfig
	client *httpclient.Client
	logger logger.Logger
}

func NewLoader(cfg config.DatasetConfig, log logger.Logger) *Loader {
	return &Loader{
		config: cfg,
		client: httpclient.NewClient(config.GetDuration(cfg.FetchTimeout)),
		logger: log.WithFields(map[string]interface{}{"component": "dataset-loader"}),
	}
}

// Load fetches the first table at sourceURL and normalizes it. Any failure
// (network, parse, no table, zero valid rows) is pipeline-fatal and comes
// back as an ACQUISITION_FAILED StandardError.
func (l *Loader) Load(ctx context.Context, sourceURL string) (*Table, error) {
	raw, err := l.fetch(ctx, sourceURL)
	if err != nil {
		metrics.PipelineFailures.WithLabelValues(string(stderrors.ErrCodeAcquisitionFailed)).Inc()
		return nil, stderrors.NewAcquisitionFailedError(sourceURL, err)
	}

	table, err := Normalize(raw)
	if err != nil {
		metrics.PipelineFailures.WithLabelValues(string(stderrors.ErrCodeAcquisitionFailed)).Inc()
		return nil, stderrors.NewAcquisitionFailedError(sourceURL, err)
	}

	if table.Dropped > 0 {
		metrics.RowsDropped.Add(float64(table.Dropped))
	}

	if len(table.Films) == 0 {
		metrics.PipelineFailures.WithLabelValues(string(stderrors.ErrCodeAcquisitionFailed)).Inc()
		return nil, stderrors.NewAcquisitionFailedError(sourceURL, fmt.Errorf("no usable rows after normalization (%d dropped)", table.Dropped))
	}

	l.logger.Info("dataset loaded", map[string]interface{}{
		"source":  sourceURL,
		"rows":    len(table.Films),
		"dropped": table.Dropped,
	})

	return table, nil
}

func (l *Loader) fetch(ctx context.Context, sourceURL string) (*RawTable, error) {
	l.logger.Debug("fetching source table", map[string]interface{}{
		"source": sourceURL,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", l.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, l.config.MaxBodyBytes)
	return ExtractFirstTable(body)
}
