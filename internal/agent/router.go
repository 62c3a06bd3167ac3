package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"analyst-agent/internal/common/config"
	stderrors "analyst-agent/internal/common/errors"
	"analyst-agent/internal/common/logger"
	"analyst-agent/internal/common/validation"
)

// Router turns a free-text task description into a Decision. It prefers an
// OpenAI-compatible chat-completions call; when no API key is configured or
// the call fails, a keyword heuristic takes over so the service keeps
// answering without the LLM.
type Router struct {
	config config.RouterConfig
	client *http.Client
	logger logger.Logger
}

func NewRouter(cfg config.RouterConfig, log logger.Logger) *Router {
	return &Router{
		config: cfg,
		client: &http.Client{
			Timeout: config.GetDuration(cfg.Timeout),
		},
		logger: log.WithFields(map[string]interface{}{"component": "router"}),
	}
}

// Decide selects the tool and arguments for a task description.
func (r *Router) Decide(ctx context.Context, task string) (*Decision, error) {
	if r.config.APIKey == "" {
		return r.heuristicDecision(task)
	}

	decision, err := r.llmDecision(ctx, task)
	if err != nil {
		r.logger.WithError(err).Warn("llm routing failed, falling back to heuristic", nil)
		return r.heuristicDecision(task)
	}
	return decision, nil
}

func (r *Router) llmDecision(ctx context.Context, task string) (*Decision, error) {
	requestBody := map[string]interface{}{
		"model":       r.config.Model,
		"temperature": 0,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": task},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	body, err := json.Marshal(requestBody)
	if err != nil {
		return nil, stderrors.NewRouterParseFailedError(err)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, stderrors.NewRouterTimeoutError()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, stderrors.NewRouterParseFailedError(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+r.config.APIKey)

		resp, lastErr = r.client.Do(req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return nil, stderrors.NewRouterTimeoutError()
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil || resp == nil {
		return nil, stderrors.NewRouterParseFailedError(fmt.Errorf("no successful response: %v", lastErr))
	}
	defer resp.Body.Close()

	var apiResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, stderrors.NewRouterParseFailedError(err)
	}
	if len(apiResponse.Choices) == 0 {
		return nil, stderrors.NewRouterParseFailedError(errors.New("empty choices"))
	}

	return parseDecision(apiResponse.Choices[0].Message.Content)
}

// parseDecision unmarshals and schema-validates the model's JSON payload.
func parseDecision(content string) (*Decision, error) {
	content = strings.TrimSpace(content)
	// Some models wrap JSON in a fenced block despite instructions.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, stderrors.NewRouterParseFailedError(err)
	}
	if err := validation.ValidateAgainstSchema(raw, decisionSchema); err != nil {
		return nil, stderrors.NewRouterParseFailedError(err)
	}

	var decision Decision
	if err := json.Unmarshal([]byte(content), &decision); err != nil {
		return nil, stderrors.NewRouterParseFailedError(err)
	}
	return &decision, nil
}

var urlRe = regexp.MustCompile(`https?://[^\s"'<>]+`)

// heuristicDecision routes without the LLM: court-data wording selects the
// SQL tool with the task text as the query; otherwise the film pipeline gets
// the first URL in the task plus its question lines.
func (r *Router) heuristicDecision(task string) (*Decision, error) {
	lowered := strings.ToLower(task)

	if strings.Contains(lowered, "high court") || strings.Contains(lowered, "duckdb") ||
		strings.HasPrefix(strings.TrimSpace(lowered), "select") {
		return &Decision{Tool: ToolCourt, Query: extractQuery(task)}, nil
	}

	url := urlRe.FindString(task)
	if url == "" {
		return nil, stderrors.NewRouterParseFailedError(errors.New("no source URL found in task"))
	}

	questions := extractQuestions(task)
	if len(questions) == 0 {
		return nil, stderrors.NewRouterParseFailedError(errors.New("no questions found in task"))
	}

	return &Decision{Tool: ToolFilms, URL: url, Questions: questions}, nil
}

// extractQuery pulls a SQL statement out of the task text, falling back to
// the whole trimmed task.
func extractQuery(task string) string {
	upper := strings.ToUpper(task)
	if i := strings.Index(upper, "SELECT"); i >= 0 {
		return strings.TrimSpace(task[i:])
	}
	return strings.TrimSpace(task)
}

var leadingEnumRe = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*])\s*`)

// extractQuestions treats each non-empty line that looks like a question
// (ends with '?' or is a numbered/bulleted item) as one question, with any
// leading enumeration stripped.
func extractQuestions(task string) []string {
	var questions []string
	for _, line := range strings.Split(task, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		enumerated := leadingEnumRe.MatchString(trimmed)
		if !enumerated && !strings.HasSuffix(trimmed, "?") {
			continue
		}
		trimmed = leadingEnumRe.ReplaceAllString(trimmed, "")
		if trimmed != "" && !urlRe.MatchString(trimmed) {
			questions = append(questions, trimmed)
		}
	}
	return questions
}
