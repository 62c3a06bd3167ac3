// Package errors provides standardized error handling for the analyst tools.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Pipeline-fatal: the dataset could not be acquired, so no question in
	// the batch can be answered.
	ErrCodeAcquisitionFailed ErrorCode = "ACQUISITION_FAILED"

	// Per-question recoverable codes.
	ErrCodeQuestionUnrecognized  ErrorCode = "QUESTION_UNRECOGNIZED"
	ErrCodeNoQualifyingRows      ErrorCode = "NO_QUALIFYING_ROWS"
	ErrCodeDegenerateCorrelation ErrorCode = "DEGENERATE_CORRELATION"
	ErrCodeImageTooLarge         ErrorCode = "IMAGE_TOO_LARGE"
	ErrCodePlotRenderFailed      ErrorCode = "PLOT_RENDER_FAILED"

	// Collaborator codes.
	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeRouterParseFailed    ErrorCode = "ROUTER_PARSE_FAILED"
	ErrCodeRouterTimeout        ErrorCode = "ROUTER_TIMEOUT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// IsCode reports whether err is a StandardError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// NewAcquisitionFailedError creates the pipeline-fatal acquisition error.
func NewAcquisitionFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAcquisitionFailed,
		Message:   "Failed to scrape or clean dataset",
		Details:   fmt.Sprintf("source: %s, error: %v", source, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuestionUnrecognizedError creates a non-retryable classification error.
func NewQuestionUnrecognizedError(question string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuestionUnrecognized,
		Message:   "Question does not match any supported operation",
		Details:   fmt.Sprintf("question: %s", question),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoQualifyingRowsError signals an empty result set for a filter operation.
func NewNoQualifyingRowsError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoQualifyingRows,
		Message:   "No rows satisfy the operation's filter",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDegenerateCorrelationError signals insufficient data or variance in the
// rank/peak columns for correlation or regression.
func NewDegenerateCorrelationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDegenerateCorrelation,
		Message:   "Rank/Peak statistics undefined for the normalized dataset",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewImageTooLargeError signals a rendered chart over the data-URI budget.
func NewImageTooLargeError(size int) *StandardError {
	return &StandardError{
		Code:      ErrCodeImageTooLarge,
		Message:   "Generated image exceeds response size budget",
		Details:   fmt.Sprintf("dataUriLength: %d", size),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPlotRenderFailedError wraps a rendering backend failure.
func NewPlotRenderFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePlotRenderFailed,
		Message:   "Chart rendering failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable SQL execution error.
func NewQueryExecutionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Court data query execution failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRouterParseFailedError creates a retryable router error.
func NewRouterParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRouterParseFailed,
		Message:   "Tool selection response could not be parsed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRouterTimeoutError creates a retryable router timeout error.
func NewRouterTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeRouterTimeout,
		Message:   "Tool selection API timeout",
		Details:   "LLM call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
