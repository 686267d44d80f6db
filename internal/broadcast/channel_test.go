// If you are AI: This file tests channel fan-out: a pre-join subscriber
// receives a header chunk and then a Cluster chunk, a reclaimed channel
// keeps serving its original header, and disconnect is idempotent.

package broadcast

import (
	"testing"

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
	return webMStreamWithScale(1000000)
}

// webMStreamWithScale builds a minimal header+keyframe-Cluster WebM
// stream whose Segment Info declares the given TimecodeScale, so tests
// can tell two publisher sessions' headers apart by byte content.
func webMStreamWithScale(scale uint64) []byte {
	var stream []byte
	stream = append(stream, encodeElement(ebml.IDEBMLHeader, []byte{0x01})...)

	var segBody []byte
	segBody = append(segBody, encodeElement(ebml.IDInfo, encodeElement(ebml.IDTimecodeScale, ebml.EncodeUint(scale)))...)

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

func TestChannelPreJoinSubscriberSeesHeaderThenKeyframe(t *testing.T) {
	ch := NewChannel("alpha", 0)
	id, queue := ch.Connect(10, false)
	defer ch.Disconnect(id)

	if err := ch.Send(minimalWebMStream()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	header, ok := queue.Pop()
	if !ok {
		t.Fatal("expected a header chunk")
	}
	if len(header) == 0 {
		t.Fatal("expected a non-empty header blob")
	}

	cluster, ok := queue.Pop()
	if !ok {
		t.Fatal("expected a cluster chunk")
	}
	if len(cluster) == 0 {
		t.Fatal("expected a non-empty cluster chunk")
	}
}

func TestChannelDisconnectIsIdempotent(t *testing.T) {
	ch := NewChannel("alpha", 0)
	id, _ := ch.Connect(10, false)
	if ch.SlotCount() != 1 {
		t.Fatalf("expected 1 slot, got %d", ch.SlotCount())
	}
	ch.Disconnect(id)
	ch.Disconnect(id)
	if ch.SlotCount() != 0 {
		t.Fatalf("expected 0 slots after disconnect, got %d", ch.SlotCount())
	}
}

// TestChannelReclaimParsesFreshPublisherAndKeepsOriginalHeader covers
// the publisher reconnect-during-grace scenario: after Reclaim, a
// second publisher's bytes must parse from ExpectHeader again (no
// stale "expected Cluster" error on the new header), the subscriber
// that was attached across the gap keeps receiving Clusters, and the
// header it already has stays the first publisher's, even though the
// second publisher's header differs.
func TestChannelReclaimParsesFreshPublisherAndKeepsOriginalHeader(t *testing.T) {
	ch := NewChannel("alpha", 0)
	id, queue := ch.Connect(10, false)
	defer ch.Disconnect(id)

	if err := ch.Send(webMStreamWithScale(1000000)); err != nil {
		t.Fatalf("unexpected error from first publisher: %v", err)
	}
	originalHeader, ok := queue.Pop()
	if !ok || len(originalHeader) == 0 {
		t.Fatal("expected a non-empty header chunk from the first publisher")
	}
	if _, ok := queue.Pop(); !ok {
		t.Fatal("expected a cluster chunk from the first publisher")
	}

	ch.Reclaim()

	if err := ch.Send(webMStreamWithScale(2000000)); err != nil {
		t.Fatalf("unexpected error from reclaiming publisher: %v", err)
	}

	cluster, ok := queue.Pop()
	if !ok || len(cluster) == 0 {
		t.Fatal("expected the gap-spanning subscriber to keep receiving clusters after reclaim")
	}

	newID, newQueue := ch.Connect(10, false)
	defer ch.Disconnect(newID)
	lateHeader, ok := newQueue.Pop()
	if !ok {
		t.Fatal("expected a header chunk for a subscriber joining after reclaim")
	}
	if string(lateHeader) != string(originalHeader) {
		t.Fatal("expected the channel to keep serving the original publisher's header after reclaim")
	}
}

func TestChannelStopClosesSlotQueues(t *testing.T) {
	ch := NewChannel("alpha", 0)
	_, queue := ch.Connect(10, false)
	ch.Stop()

	_, ok := queue.Pop()
	if ok {
		t.Fatal("expected a closed, empty queue after Stop")
	}
	if ch.State() != Dead {
		t.Fatalf("expected Dead state after Stop, got %v", ch.State())
	}
}
