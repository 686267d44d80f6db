// If you are AI: This file provides HTTP API service integration.
// The API exposes read-only server and stream state without touching
// any media path.

package api

import (
	"net/http"
	"time"

	"webmcast/internal/broadcast"
)

// Service provides HTTP API functionality.
type Service struct {
	registry  *broadcast.Registry
	startTime int64
}

// NewService creates a new API service.
func NewService(registry *broadcast.Registry) *Service {
	return &Service{
		registry:  registry,
		startTime: getCurrentTime(),
	}
}

// RegisterRoutes registers API routes on the provided mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/server", s.handleServer)
	mux.HandleFunc("/api/streams", s.handleStreams)
}

// getCurrentTime returns current Unix timestamp.
// Extracted for testability.
func getCurrentTime() int64 {
	return time.Now().Unix()
}
