// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuestionsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyst_questions_processed_total",
			Help: "Total number of questions processed by operation kind",
		},
		[]string{"operation", "outcome"},
	)

	PipelineFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyst_pipeline_failures_total",
			Help: "Pipeline failures by error code, fatal and per-question",
		},
		[]string{"error_code"},
	)

	RowsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analyst_dataset_rows_dropped_total",
			Help: "Raw table rows excluded during normalization",
		},
	)

	DatasetCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyst_dataset_cache_requests_total",
			Help: "Dataset cache lookups by result",
		},
		[]string{"result"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "analyst_request_duration_seconds",
			Help: "Duration of analysis requests in seconds",
		},
		[]string{"tool"},
	)
)
