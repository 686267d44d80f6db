// If you are AI: This file defines the Cluster event handed from the
// publisher-side rewriter to per-subscriber rewriting.

package matroska

// ClusterEvent is one fully-buffered Cluster handed up from the
// publisher-side state machine: its raw on-wire bytes (Cluster header
// through its last child), the Timecode it declared, whether its first
// block carries the keyframe flag and which track that block is on
// (TrackNumber; SlotRewriter compares it to the video track), and enough position
// information to rewrite that Timecode in place for each subscriber.
// Raw aliases a pooled buffer until Release is called: callers that
// need to retain the bytes past Release must copy them first, which
// rewriteTimecode and every Channel.Send caller already do.
type ClusterEvent struct {
	Raw                 []byte
	Timecode            uint64
	Keyframe            bool
	TrackNumber         uint64
	TimecodeValueOffset int
	TimecodeValueWidth  int

	release func()
}

// Release returns the event's backing buffer to the publisher's pool.
// Callers must not touch Raw afterward. It is safe to call on a
// zero-value ClusterEvent (release is nil, e.g. in tests that build
// events directly).
func (ev ClusterEvent) Release() {
	if ev.release != nil {
		ev.release()
	}
}

// rewriteClusterTimecode returns a copy of ev.Raw with the Timecode
// child's value replaced by newValue, encoded as a fixed-width,
// zero-padded big-endian integer of the same width the publisher used.
// newValue must be representable in that width; callers only ever pass
// a value derived by subtracting a non-negative offset from the
// original Timecode, which always fits in the original's width.
func (ev ClusterEvent) rewriteTimecode(newValue uint64) []byte {
	out := append([]byte(nil), ev.Raw...)
	w := ev.TimecodeValueWidth
	off := ev.TimecodeValueOffset
	for i := w - 1; i >= 0; i-- {
		out[off+i] = byte(newValue)
		newValue >>= 8
	}
	return out
}
