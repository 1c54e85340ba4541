// Package httpapi exposes the conversation engine over HTTP.
//
// Route shapes and payloads follow the service's JSON API: sessions and
// messages under /chat, the tool catalog under /tools, and the model
// catalog under /models. Errors are reported as {"detail": "..."} with
// conventional status codes.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	apsara "github.com/shubharthaksangharsha/apsara2.5"
	"github.com/shubharthaksangharsha/apsara2.5/engine"
	"github.com/shubharthaksangharsha/apsara2.5/registry"
)

// Server routes HTTP requests to the engine and registry.
type Server struct {
	engine   *engine.Engine
	registry *registry.Registry
	logger   *zap.Logger
	handler  http.Handler
}

// New creates a [Server]. A nil logger disables logging.
func New(eng *engine.Engine, reg *registry.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{engine: eng, registry: reg, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)

	mux.HandleFunc("POST /chat/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /chat/sessions", s.handleListSessions)
	mux.HandleFunc("GET /chat/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /chat/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /chat/messages", s.handleSendMessage)
	mux.HandleFunc("POST /chat/messages/edit", s.handleEditMessage)
	mux.HandleFunc("GET /chat/messages/{id}", s.handleGetMessages)

	mux.HandleFunc("GET /tools", s.handleListTools)
	mux.HandleFunc("GET /tools/{name}", s.handleGetTool)
	mux.HandleFunc("POST /tools/execute", s.handleExecuteTool)

	mux.HandleFunc("GET /models", s.handleListModels)
	mux.HandleFunc("GET /models/{id}", s.handleGetModel)

	mux.HandleFunc("POST /images/generate", s.handleGenerateImage)

	s.handler = s.withLogging(mux)
	return s
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]any{
		"name":        "Apsara 2.5 API",
		"description": "Backend API for Apsara 2.5, a Gemini-powered chat application",
		"endpoints": map[string]string{
			"chat":   "/chat",
			"models": "/models",
			"tools":  "/tools",
			"images": "/images",
		},
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encoding failed", zap.Error(err))
	}
}

// respondError maps domain errors to status codes and renders the
// {"detail": ...} error shape.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apsara.ErrSessionNotFound),
		errors.Is(err, apsara.ErrMessageNotFound),
		errors.Is(err, apsara.ErrToolNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apsara.ErrValidation),
		errors.Is(err, apsara.ErrModelNotFound):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.respond(w, status, map[string]string{"detail": err.Error()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respond(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body: " + err.Error()})
		return false
	}
	return true
}
