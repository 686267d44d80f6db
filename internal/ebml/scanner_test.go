// If you are AI: This file tests incremental feeding across arbitrary
// chunk boundaries and the element-size cap.

package ebml

import "testing"

func TestScannerFeedAcrossBoundaries(t *testing.T) {
	// Segment header (unknown length) followed by a small Info element.
	var full []byte
	full = append(full, EncodeElementID(IDSegment)...)
	full = append(full, UnknownLengthSize(1)...)
	full = append(full, EncodeElementID(IDInfo)...)
	infoBody := []byte{0xAA, 0xBB, 0xCC}
	sizeEnc, err := EncodeElementSize(uint64(len(infoBody)))
	if err != nil {
		t.Fatalf("encode size: %v", err)
	}
	full = append(full, sizeEnc...)
	full = append(full, infoBody...)

	s := NewScanner(0)
	fed := 0
	var segTag Tag
	for fed < len(full) {
		s.Feed(full[fed : fed+1])
		fed++

		tag, ok, err := s.Next()
		if err != nil {
			t.Fatalf("unexpected error at byte %d: %v", fed, err)
		}
		if !ok {
			continue
		}
		segTag = tag
		break
	}
	if segTag.ID != IDSegment || !segTag.Unknown {
		t.Fatalf("expected unknown-length Segment header, got %+v", segTag)
	}
	s.Discard(segTag.HeaderLen)

	// Feed the remaining bytes one at a time, same across-boundary
	// discipline, for the Info element that follows.
	var infoTag Tag
	for fed < len(full) {
		s.Feed(full[fed : fed+1])
		fed++

		tag, ok, err := s.Next()
		if err != nil {
			t.Fatalf("unexpected error at byte %d: %v", fed, err)
		}
		if !ok {
			continue
		}
		infoTag = tag
		break
	}
	if infoTag.ID != IDInfo || infoTag.Unknown || infoTag.Size != int64(len(infoBody)) {
		t.Fatalf("unexpected Info tag: %+v", infoTag)
	}
	s.Discard(infoTag.HeaderLen)

	for s.Buffered() < int(infoTag.Size) && fed < len(full) {
		s.Feed(full[fed : fed+1])
		fed++
	}
	body := s.Peek(int(infoTag.Size))
	if body == nil {
		t.Fatal("expected Info body to be fully buffered")
	}
	if string(body) != string(infoBody) {
		t.Fatalf("body mismatch: got %v want %v", body, infoBody)
	}
	s.Discard(len(body))

	if s.Buffered() != 0 {
		t.Fatalf("expected scanner to be drained, %d bytes remain", s.Buffered())
	}
}

func TestScannerRejectsOversizedElement(t *testing.T) {
	s := NewScanner(10)
	var data []byte
	data = append(data, EncodeElementID(IDCluster)...)
	sizeEnc, err := EncodeElementSize(1000)
	if err != nil {
		t.Fatalf("encode size: %v", err)
	}
	data = append(data, sizeEnc...)
	s.Feed(data)

	_, _, err = s.Next()
	if err == nil {
		t.Fatal("expected an oversized-element error")
	}
	if _, ok := err.(*MalformedEBMLError); !ok {
		t.Fatalf("expected *MalformedEBMLError, got %T", err)
	}
}
