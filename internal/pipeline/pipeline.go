// Package pipeline assembles the answer sequence for a batch of questions
// over one loaded dataset. The output is index-aligned with the input:
// per-question failures become error answers in place, never omissions.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"analyst-agent/internal/analysis"
	stderrors "analyst-agent/internal/common/errors"
	"analyst-agent/internal/common/logger"
	"analyst-agent/internal/common/metrics"
	"analyst-agent/internal/dataset"
	"analyst-agent/internal/question"
)

// Runner executes the film-analysis pipeline: load once, then classify and
// execute each question in order against the shared read-only table.
type Runner struct {
	loader dataset.TableLoader
	logger logger.Logger
}

func NewRunner(loader dataset.TableLoader, log logger.Logger) *Runner {
	return &Runner{
		loader: loader,
		logger: log.WithFields(map[string]interface{}{"component": "film-pipeline"}),
	}
}

// Run answers the questions against the table at sourceURL. A load failure
// is unrecoverable per-question, so it yields a single-element error
// sequence. Otherwise the result has exactly one answer per question.
func (r *Runner) Run(ctx context.Context, sourceURL string, questions []string) []analysis.Answer {
	table, err := r.loader.Load(ctx, sourceURL)
	if err != nil {
		r.logger.WithError(err).Error("dataset acquisition failed", map[string]interface{}{
			"source": sourceURL,
		})
		return []analysis.Answer{
			analysis.ErrorAnswer(fmt.Sprintf("Failed to scrape or clean data from %s: %v", sourceURL, err)),
		}
	}

	answers := make([]analysis.Answer, 0, len(questions))
	for _, q := range questions {
		kind := question.Classify(q)
		answer := r.answer(table, q, kind)

		outcome := "ok"
		if answer.IsError() {
			outcome = "error"
		}
		metrics.QuestionsProcessed.WithLabelValues(kind.String(), outcome).Inc()

		answers = append(answers, answer)
	}

	r.logger.Info("pipeline completed", map[string]interface{}{
		"source":    sourceURL,
		"questions": len(questions),
		"rows":      len(table.Films),
	})

	return answers
}

// answer executes a single classified question, converting any panic in an
// executor into an error answer so one bad question cannot abort the batch.
func (r *Runner) answer(table *dataset.Table, q string, kind question.Kind) (answer analysis.Answer) {
	defer func() {
		if rec := recover(); rec != nil {
			answer = analysis.ErrorAnswer(fmt.Sprintf("Error processing question '%s': %v", q, rec))
		}
	}()

	var err error
	switch kind {
	case question.CountAboveThreshold:
		answer, err = analysis.CountAboveThreshold(table)
	case question.EarliestAboveThreshold:
		answer, err = analysis.EarliestAboveThreshold(table)
	case question.Correlation:
		answer, err = analysis.Correlation(table)
	case question.RegressionPlot:
		answer, err = analysis.RegressionPlot(table)
	default:
		err = stderrors.NewQuestionUnrecognizedError(q)
	}

	if err != nil {
		return r.errorAnswer(q, err)
	}
	return answer
}

// errorAnswer converts a coded executor failure into the error answer at the
// question's index and records the code. The oversized-image failure maps to
// its fixed literal; every other failure gets the offending question attached.
func (r *Runner) errorAnswer(q string, err error) analysis.Answer {
	var se *stderrors.StandardError
	if !errors.As(err, &se) {
		return analysis.ErrorAnswer(fmt.Sprintf("Error processing question '%s': %v", q, err))
	}

	metrics.PipelineFailures.WithLabelValues(string(se.Code)).Inc()

	switch se.Code {
	case stderrors.ErrCodeImageTooLarge:
		return analysis.ErrorAnswer(analysis.ImageTooLargeText)
	case stderrors.ErrCodeQuestionUnrecognized:
		return analysis.ErrorAnswer(fmt.Sprintf("Error processing question '%s': no supported operation matched", q))
	default:
		return analysis.ErrorAnswer(fmt.Sprintf("Error processing question '%s': %s", q, se.Details))
	}
}
