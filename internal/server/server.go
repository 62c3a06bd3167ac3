// Package server exposes the agent over HTTP: POST /api/ accepts a
// multipart form carrying a question.txt file with the task description.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"analyst-agent/internal/common/config"
	"analyst-agent/internal/common/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const taskFileField = "question.txt"

// maxTaskBytes caps the uploaded task description.
const maxTaskBytes = 1 << 20

// TaskRunner is the agent surface the server depends on.
type TaskRunner interface {
	Run(ctx context.Context, task string) (interface{}, error)
}

type Server struct {
	agent  TaskRunner
	config config.ServerConfig
	logger logger.Logger
}

func New(agent TaskRunner, cfg config.ServerConfig, log logger.Logger) *Server {
	return &Server{
		agent:  agent,
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"component": "http-server"}),
	}
}

// Routes builds the HTTP mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/", s.handleTask)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "only POST is supported")
		return
	}

	requestID := uuid.NewString()
	log := s.logger.WithFields(map[string]interface{}{"requestId": requestID})
	w.Header().Set("X-Request-Id", requestID)

	task, ok := s.readTaskFile(w, r)
	if !ok {
		return
	}

	log.Info("task received", map[string]interface{}{
		"taskBytes": len(task),
	})

	ctx, cancel := context.WithTimeout(r.Context(), config.GetDuration(s.config.RequestTimeout))
	defer cancel()

	result, err := s.agent.Run(ctx, task)
	if err != nil {
		log.Error("task failed", map[string]interface{}{"error": err.Error()})
		s.writeError(w, http.StatusInternalServerError, "An error occurred: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// readTaskFile extracts and validates the question.txt upload, writing the
// error response itself when the request is malformed.
func (s *Server) readTaskFile(w http.ResponseWriter, r *http.Request) (string, bool) {
	if err := r.ParseMultipartForm(maxTaskBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "request must be multipart form data")
		return "", false
	}

	file, _, err := r.FormFile(taskFileField)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Missing 'question.txt' file in the request")
		return "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxTaskBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read 'question.txt'")
		return "", false
	}

	task := strings.TrimSpace(string(data))
	if task == "" {
		s.writeError(w, http.StatusBadRequest, "The 'question.txt' file is empty")
		return "", false
	}
	return task, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encoding failed", map[string]interface{}{"error": err.Error()})
	}
}
