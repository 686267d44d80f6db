// If you are AI: This file tests the three /stream/<name> routes:
// publish/subscribe happy path, 403 on name takeover, 404 on missing
// subscribe, 405 on unsupported methods.

package httpstream

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"webmcast/internal/broadcast"
	"webmcast/internal/ebml"
)

func encodeElement(id uint64, body []byte) []byte {
	out := append([]byte(nil), ebml.EncodeElementID(id)...)
	sizeEnc, err := ebml.EncodeElementSize(uint64(len(body)))
	if err != nil {
		panic(err)
	}
	out = append(out, sizeEnc...)
	return append(out, body...)
}

func minimalWebMStream() []byte {
	var stream []byte
	stream = append(stream, encodeElement(ebml.IDEBMLHeader, []byte{0x01})...)

	var segBody []byte
	segBody = append(segBody, encodeElement(ebml.IDInfo, encodeElement(ebml.IDTimecodeScale, ebml.EncodeUint(1000000)))...)

	var trackEntry []byte
	trackEntry = append(trackEntry, encodeElement(ebml.IDTrackNumber, ebml.EncodeUint(1))...)
	trackEntry = append(trackEntry, encodeElement(ebml.IDTrackType, ebml.EncodeUint(1))...)
	segBody = append(segBody, encodeElement(ebml.IDTracks, encodeElement(ebml.IDTrackEntry, trackEntry))...)

	trackSize, _ := ebml.EncodeElementSize(1)
	block := append([]byte(nil), trackSize...)
	block = append(block, 0x00, 0x00, 0x80)
	cluster := encodeElement(ebml.IDCluster, append(encodeElement(ebml.IDTimecode, ebml.EncodeUint(0)), encodeElement(ebml.IDSimpleBlock, block)...))
	segBody = append(segBody, cluster...)

	stream = append(stream, ebml.EncodeElementID(ebml.IDSegment)...)
	stream = append(stream, ebml.UnknownLengthSize(8)...)
	stream = append(stream, segBody...)
	return stream
}

func TestSubscribeNotFound(t *testing.T) {
	h := NewHandler(broadcast.NewRegistry(0, 0), 0)
	req := httptest.NewRequest(http.MethodGet, "/stream/ghost", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewHandler(broadcast.NewRegistry(0, 0), 0)
	req := httptest.NewRequest(http.MethodDelete, "/stream/alpha", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestPublishThenSubscribeHappyPath(t *testing.T) {
	h := NewHandler(broadcast.NewRegistry(0, 0), 0)

	ctx, cancel := context.WithCancel(context.Background())
	subReq := httptest.NewRequest(http.MethodGet, "/stream/alpha", nil).WithContext(ctx)
	subW := httptest.NewRecorder()

	ch, err := h.Registry.Claim("alpha")
	if err != nil {
		t.Fatalf("unexpected claim error: %v", err)
	}

	subDone := make(chan struct{})
	go func() {
		h.ServeHTTP(subW, subReq)
		close(subDone)
	}()

	time.Sleep(20 * time.Millisecond) // let Connect() run before Send

	if err := ch.Send(minimalWebMStream()); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-subDone:
	case <-time.After(time.Second):
		t.Fatal("subscriber handler did not stop after context cancellation")
	}

	if subW.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", subW.Code)
	}
	if subW.Header().Get("Content-Type") != "video/webm" {
		t.Fatalf("unexpected content-type %q", subW.Header().Get("Content-Type"))
	}
	if subW.Body.Len() == 0 {
		t.Fatal("expected some bytes to have been streamed to the subscriber")
	}
}

func TestPublishRejectsNameTakenWhileLive(t *testing.T) {
	h := NewHandler(broadcast.NewRegistry(0, 0), 0)
	if _, err := h.Registry.Claim("alpha"); err != nil {
		t.Fatalf("unexpected claim error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/stream/alpha", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestPublishRejectsSlashInName(t *testing.T) {
	h := NewHandler(broadcast.NewRegistry(0, 0), 0)
	req := httptest.NewRequest(http.MethodPost, "/stream/a/b", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
