// If you are AI: This file adapts net/http request/response bodies onto
// the broadcast registry's publish/subscribe operations.

package httpstream

import (
	"io"
	"log"
	"net/http"
	"strings"

	"webmcast/internal/broadcast"
	"webmcast/internal/ebml"
)

const readChunkSize = 32 * 1024

// Handler adapts HTTP request/response bodies onto a broadcast
// registry's Claim/Lookup/Send/Connect/Disconnect operations. It is
// mounted directly on an http.ServeMux, the same way the teacher mounts
// its own per-protocol service handlers.
type Handler struct {
	Registry          *broadcast.Registry
	MaxEnqueuedFrames int
}

// NewHandler constructs a Handler. maxEnqueuedFrames <= 0 selects
// broadcast.DefaultMaxEnqueuedFrames at Connect time.
func NewHandler(registry *broadcast.Registry, maxEnqueuedFrames int) *Handler {
	return &Handler{Registry: registry, MaxEnqueuedFrames: maxEnqueuedFrames}
}

// ServeHTTP implements the three routes of /stream/<name>.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, ok := streamName(r.URL.Path)
	if !ok {
		http.Error(w, "invalid stream name", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPost, http.MethodPut:
		h.publish(w, r, name)
	case http.MethodGet, http.MethodHead:
		h.subscribe(w, r, name)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST, PUT")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// streamName extracts <name> from a /stream/<name> path and rejects
// names containing a slash.
func streamName(path string) (string, bool) {
	const prefix = "/stream/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(path, prefix)
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

// publish claims name for r's lifetime and streams its body into the
// channel until the publisher disconnects or sends malformed EBML.
func (h *Handler) publish(w http.ResponseWriter, r *http.Request, name string) {
	ch, err := h.Registry.Claim(name)
	if err != nil {
		if _, ok := err.(*broadcast.NameTakenError); ok {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var sendErr error
	buf := make([]byte, readChunkSize)
	for {
		n, readErr := r.Body.Read(buf)
		if n > 0 {
			if err := ch.Send(buf[:n]); err != nil {
				sendErr = err
				break
			}
		}
		if readErr != nil {
			if readErr != io.EOF {
				sendErr = &broadcast.PublisherDisconnect{Name: name, Err: readErr}
			}
			break
		}
	}

	h.Registry.Release(name, ch)

	if sendErr == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if _, ok := sendErr.(*ebml.MalformedEBMLError); ok {
		log.Printf("httpstream: publisher %q sent malformed EBML: %v", name, sendErr)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	log.Printf("httpstream: publisher %q disconnected: %v", name, sendErr)
	w.WriteHeader(http.StatusBadRequest)
}

// subscribe attaches a new slot on name's channel and streams its queue
// to r's response body until the client disconnects.
func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request, name string) {
	ch, err := h.Registry.Lookup(name)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	id, queue := ch.Connect(h.MaxEnqueuedFrames, false)

	header := w.Header()
	header.Set("Content-Type", "video/webm")
	header.Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		ch.Disconnect(id)
		return
	}

	watcherDone := make(chan struct{})
	defer close(watcherDone)
	go func() {
		select {
		case <-r.Context().Done():
			ch.Disconnect(id)
		case <-watcherDone:
		}
	}()

	flusher, _ := w.(http.Flusher)
	for {
		data, ok := queue.Pop()
		if !ok {
			break
		}
		if _, writeErr := w.Write(data); writeErr != nil {
			log.Printf("httpstream: subscriber of %q disconnected: %v", name, writeErr)
			break
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	ch.Disconnect(id)
}
