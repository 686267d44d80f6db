// If you are AI: This file tests the bounded drop policy and the
// blocking Pop/Close contract.

package broadcast

import (
	"testing"
	"time"
)

func TestSlotQueueNonForcedDropsAtCapacity(t *testing.T) {
	q := NewSlotQueue(2)
	if !q.Push([]byte("a"), false) {
		t.Fatal("expected first push to succeed")
	}
	if !q.Push([]byte("b"), false) {
		t.Fatal("expected second push to succeed")
	}
	if q.Push([]byte("c"), false) {
		t.Fatal("expected non-forced push at capacity to fail")
	}
	if q.Dropped() != 1 {
		t.Fatalf("expected 1 recorded drop, got %d", q.Dropped())
	}
}

func TestSlotQueueForcedPushDrainsOldest(t *testing.T) {
	q := NewSlotQueue(2)
	q.Push([]byte("a"), false)
	q.Push([]byte("b"), false)
	if !q.Push([]byte("c"), true) {
		t.Fatal("expected forced push to always succeed")
	}

	first, ok := q.Pop()
	if !ok || string(first) != "b" {
		t.Fatalf("expected oldest pending chunk to have been dropped, got %q", first)
	}
	second, ok := q.Pop()
	if !ok || string(second) != "c" {
		t.Fatalf("expected forced chunk next, got %q", second)
	}
}

func TestSlotQueuePopBlocksUntilPushOrClose(t *testing.T) {
	q := NewSlotQueue(4)
	done := make(chan struct{})
	var gotOK bool
	go func() {
		_, gotOK = q.Pop()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Pop returned before anything was pushed or closed")
	case <-time.After(50 * time.Millisecond):
	}

	q.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Pop did not wake on Close")
	}
	if gotOK {
		t.Fatal("expected ok=false for Pop on a closed, empty queue")
	}
}

func TestSlotQueuePushAfterCloseFails(t *testing.T) {
	q := NewSlotQueue(4)
	q.Close()
	if q.Push([]byte("x"), true) {
		t.Fatal("expected push to a closed queue to fail even when forced")
	}
}
