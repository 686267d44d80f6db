// If you are AI: This file implements Channel, the one-publisher/many-
// subscriber fan-out unit built on top of the matroska rewriter.

package broadcast

import (
	"log"
	"sync"

	"webmcast/internal/matroska"
)

// State is the broadcast channel's lifecycle state.
type State int

const (
	Live State = iota
	Draining
	Dead
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Live:
		return "Live"
	case Draining:
		return "Draining"
	case Dead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// SlotID identifies one attached subscriber on a Channel. Allocated as
// a bare incrementing counter under the channel's own lock, matching
// the teacher's bus.Stream subscriber-ID allocation — collision
// freedom only needs to hold within one channel's lifetime, which a
// mutex-guarded counter already guarantees.
type SlotID uint64

type slot struct {
	id       SlotID
	queue    *SlotQueue
	rewriter *matroska.SlotRewriter
}

// Channel owns one publisher-side rewriter and the set of attached
// subscriber slots, generalizing the teacher's bus.Stream (one
// *Publisher marker plus a map[uint64]*Subscriber) to a system with a
// single publisher type and subscribers that carry rewrite state
// rather than being bare ring-buffer handles.
type Channel struct {
	name string

	mu      sync.RWMutex
	slots   map[SlotID]*slot
	nextID  SlotID
	stopped bool

	publisher      *matroska.Publisher
	maxElementSize int64
	frozenHeader   []byte
	bitrate        *bitrateEstimator
}

// NewChannel constructs an empty, Live channel. maxElementSize bounds
// any single EBML element the publisher may send; non-positive selects
// the tokenizer's default.
func NewChannel(name string, maxElementSize int64) *Channel {
	return &Channel{
		name:           name,
		slots:          make(map[SlotID]*slot),
		publisher:      matroska.NewPublisher(maxElementSize),
		maxElementSize: maxElementSize,
		bitrate:        newBitrateEstimator(),
	}
}

// Reclaim swaps in a fresh matroska.Publisher for a new publisher
// session reusing this channel's name, as Registry.Claim does when a
// grace-armed entry is taken over. It leaves attached slots and the
// channel's already-frozen header blob untouched: the new publisher is
// parsed from ExpectHeader so its Clusters fan out normally, but its
// own header (if it differs from the original) is never exposed to
// subscribers, matching the reused-channel-keeps-the-original-header
// rule.
func (c *Channel) Reclaim() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publisher = matroska.NewPublisher(c.maxElementSize)
}

// Name returns the stream name this channel was claimed under.
func (c *Channel) Name() string {
	return c.name
}

// State reports the channel's lifecycle state. Draining is not
// currently distinguished from Live at the channel level — the
// registry tracks the grace-armed/Live distinction — so this reports
// only Live or Dead.
func (c *Channel) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.stopped {
		return Dead
	}
	return Live
}

// BitrateEstimate returns the current bytes/second estimate.
func (c *Channel) BitrateEstimate() float64 {
	return c.bitrate.estimate()
}

// Send feeds chunk into the publisher-side rewriter and fans out every
// resulting event — the frozen header blob the first time it becomes
// available, and each completed Cluster — to every attached slot. It
// never blocks on subscriber I/O: fan-out only enqueues into each
// slot's bounded queue. It returns a non-nil error only for
// *ebml.MalformedEBMLError; once that happens the channel's publisher
// side is done and the caller should call Stop.
func (c *Channel) Send(chunk []byte) error {
	events, feedErr := c.publisher.Feed(chunk)
	c.bitrate.add(len(chunk))

	c.mu.Lock()
	hadHeader := c.frozenHeader != nil
	if !hadHeader {
		if blob := c.publisher.HeaderBlob(); blob != nil {
			c.frozenHeader = blob
		}
	}
	headerBlob := c.frozenHeader
	videoTrack, _ := c.publisher.VideoTrackNumber()
	for _, s := range c.slots {
		if !hadHeader && headerBlob != nil && s.rewriter.State() == matroska.SlotNeedsHeader {
			// A slot attached before Tracks was parsed was built without
			// the video track number; rebuild it now that it is known.
			s.rewriter = matroska.NewSlotRewriter(videoTrack, false)
			if s.queue.Push(headerBlob, true) {
				s.rewriter.ConsumeHeader()
			}
		}
		for _, ev := range events {
			if s.rewriter.State() == matroska.SlotNeedsHeader {
				continue
			}
			data, emit := s.rewriter.RewriteCluster(ev)
			if !emit {
				continue
			}
			if !s.queue.Push(data, ev.Keyframe) {
				s.rewriter.Drop()
				log.Printf("broadcast: %v", &SubscriberSlow{Name: c.name, Slot: s.id})
			}
		}
	}
	c.mu.Unlock()

	for _, ev := range events {
		ev.Release()
	}

	return feedErr
}

// Connect allocates a new subscriber slot. If skipHeader is false and
// the header blob is already frozen, the header is pushed to the new
// slot's queue immediately; a slot attached before the header freezes
// receives it from the Send call that freezes it. queueCapacity is
// forwarded to NewSlotQueue.
func (c *Channel) Connect(queueCapacity int, skipHeader bool) (SlotID, *SlotQueue) {
	c.mu.Lock()
	defer c.mu.Unlock()

	videoTrack, _ := c.publisher.VideoTrackNumber()
	rewriter := matroska.NewSlotRewriter(videoTrack, skipHeader)
	queue := NewSlotQueue(queueCapacity)

	if !skipHeader {
		if hb := c.frozenHeader; hb != nil {
			queue.Push(hb, true)
			rewriter.ConsumeHeader()
		}
	}

	id := c.nextID
	c.nextID++
	c.slots[id] = &slot{id: id, queue: queue, rewriter: rewriter}
	return id, queue
}

// Disconnect removes a slot and closes its queue. Calling it twice for
// the same SlotID is a no-op the second time.
func (c *Channel) Disconnect(id SlotID) {
	c.mu.Lock()
	s, ok := c.slots[id]
	if ok {
		delete(c.slots, id)
	}
	c.mu.Unlock()
	if ok {
		s.queue.Close()
	}
}

// Stop signals publisher-gone: it finishes the publisher-side state
// machine and closes every attached slot's queue, transitioning the
// channel to Dead. Idempotent.
func (c *Channel) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.publisher.Finish()
	slots := make([]*slot, 0, len(c.slots))
	for _, s := range c.slots {
		slots = append(slots, s)
	}
	c.mu.Unlock()

	for _, s := range slots {
		s.queue.Close()
	}
}

// IsEmpty reports whether the channel currently has no attached
// subscriber slots.
func (c *Channel) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.slots) == 0
}

// SlotCount reports the number of attached subscriber slots.
func (c *Channel) SlotCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.slots)
}
