// Package server exposes identification over HTTP for remote clients.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/llehouerou/chorus/internal/capture"
	"github.com/llehouerou/chorus/internal/identify"
)

const maxSampleBytes = 32 << 20

// Server handles identification requests.
type Server struct {
	identifier     identify.Identifier
	allowedOrigins []string
	startedAt      time.Time
}

// New creates a server backed by identifier. An empty allowedOrigins list
// allows every origin.
func New(identifier identify.Identifier, allowedOrigins []string) *Server {
	return &Server{
		identifier:     identifier,
		allowedOrigins: allowedOrigins,
		startedAt:      time.Now(),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler registers all routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/identify", s.handleIdentify)
	mux.HandleFunc("GET /health", s.handleHealth)
	return corsMiddleware(s.allowedOrigins)(loggingMiddleware(mux))
}

// handleIdentify handles POST /api/identify with a multipart "sample" file.
func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxSampleBytes)

	file, header, err := r.FormFile("sample")
	if err != nil {
		logger.Debugf(ctx, "identify request without sample: %v", err)
		respondJSON(w, r, http.StatusBadRequest, errorResponse{Error: "No audio file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Errorf(ctx, "read sample: %v", err)
		respondJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	sample := capture.Sample{Data: data, MIMEType: header.Header.Get("Content-Type")}
	result, err := s.identifier.Identify(ctx, sample)
	switch {
	case errors.Is(err, identify.ErrNoSample):
		respondJSON(w, r, http.StatusBadRequest, errorResponse{Error: "No audio file provided"})
		return
	case err != nil:
		logger.Errorf(ctx, "identification error: %v", err)
		respondJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	if result.Identified {
		logger.Infof(ctx, "identified %q by %q", result.Track.Name, result.Track.Artist)
	}
	respondJSON(w, r, http.StatusOK, result)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func respondJSON(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf(r.Context(), "failed to encode JSON response: %v", err)
	}
}
