// If you are AI: This file implements HTTP API handlers.
// All handlers are fast, allocation-light, and never block media paths.

package api

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// ServerResponse represents the /api/server response.
type ServerResponse struct {
	Version   string `json:"version"`
	Uptime    int64  `json:"uptime"` // seconds
	GoVersion string `json:"go_version"`
}

// StreamInfo represents information about a stream.
type StreamInfo struct {
	Name            string `json:"name"`
	State           string `json:"state"`
	SubscriberCount int    `json:"subscriber_count"`
}

// StreamsResponse represents the /api/streams response.
type StreamsResponse struct {
	Streams []StreamInfo `json:"streams"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleServer handles GET /api/server.
// Returns server version, uptime, and Go runtime version.
func (s *Service) handleServer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	response := ServerResponse{
		Version:   "1.0.0",
		Uptime:    getCurrentTime() - s.startTime,
		GoVersion: runtime.Version(),
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleStreams handles GET /api/streams.
// Returns the list of tracked stream names with state and subscriber
// count. A grace-armed name (publisher disconnected, not yet expired)
// still appears here.
func (s *Service) handleStreams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	names := s.registry.Names()
	streams := make([]StreamInfo, 0, len(names))
	for _, name := range names {
		ch, err := s.registry.Lookup(name)
		if err != nil {
			continue
		}
		streams = append(streams, StreamInfo{
			Name:            name,
			State:           ch.State().String(),
			SubscriberCount: ch.SlotCount(),
		})
	}

	s.writeJSON(w, http.StatusOK, StreamsResponse{Streams: streams})
}

// writeJSON writes a JSON response.
func (s *Service) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func (s *Service) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}

