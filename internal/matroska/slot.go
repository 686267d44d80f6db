// If you are AI: This file implements the per-subscriber rewrite state
// machine (NeedsHeader -> WaitKeyframe -> Streaming).

package matroska

// SlotState is the per-subscriber rewrite state described in §4.2 of
// the broadcast engine's design: a newly attached subscriber needs the
// frozen header blob, then must wait for a keyframe Cluster before it
// can start streaming (so its decoder never has to start mid-GOP).
type SlotState int

const (
	SlotNeedsHeader SlotState = iota
	SlotWaitKeyframe
	SlotStreaming
)

// String implements fmt.Stringer.
func (s SlotState) String() string {
	switch s {
	case SlotNeedsHeader:
		return "NeedsHeader"
	case SlotWaitKeyframe:
		return "WaitKeyframe"
	case SlotStreaming:
		return "Streaming"
	default:
		return "Unknown"
	}
}

// SlotRewriter carries one subscriber's rewrite state across the
// lifetime of its attachment: whether it has received the header yet,
// and — once streaming — the Timecode offset captured from the first
// keyframe Cluster it saw, so every Cluster it receives starts its own
// timeline at zero.
type SlotRewriter struct {
	state            SlotState
	videoTrackNumber uint64
	timecodeOffset   uint64
}

// NewSlotRewriter constructs rewrite state for a newly attached slot.
// skipHeader is reserved for mid-stream source switching (never used
// by the HTTP boundary today, but accepted so the state machine itself
// doesn't need to change when that lands).
func NewSlotRewriter(videoTrackNumber uint64, skipHeader bool) *SlotRewriter {
	state := SlotNeedsHeader
	if skipHeader {
		state = SlotWaitKeyframe
	}
	return &SlotRewriter{state: state, videoTrackNumber: videoTrackNumber}
}

// State reports the slot's current rewrite state.
func (r *SlotRewriter) State() SlotState {
	return r.state
}

// ConsumeHeader transitions a slot that has just been sent the frozen
// header blob out of NeedsHeader. Calling it from any other state is a
// no-op.
func (r *SlotRewriter) ConsumeHeader() {
	if r.state == SlotNeedsHeader {
		r.state = SlotWaitKeyframe
	}
}

// Drop reverts the slot to WaitKeyframe after the subscriber queue has
// refused a non-forced push, discarding the remainder of the current
// Cluster and any non-keyframe Clusters until the next keyframe.
func (r *SlotRewriter) Drop() {
	r.state = SlotWaitKeyframe
}

// RewriteCluster decides whether ev should be emitted to this slot and,
// if so, returns its bytes with the Timecode rebased to the slot's own
// timeline. It must not be called while the slot is still
// SlotNeedsHeader — the caller is responsible for sequencing the
// header blob ahead of any Cluster.
func (r *SlotRewriter) RewriteCluster(ev ClusterEvent) (out []byte, emit bool) {
	switch r.state {
	case SlotWaitKeyframe:
		if !ev.Keyframe || ev.TrackNumber != r.videoTrackNumber {
			return nil, false
		}
		r.timecodeOffset = ev.Timecode
		r.state = SlotStreaming
		return ev.rewriteTimecode(0), true
	case SlotStreaming:
		return ev.rewriteTimecode(ev.Timecode - r.timecodeOffset), true
	default:
		return nil, false
	}
}
