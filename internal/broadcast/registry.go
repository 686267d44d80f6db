// If you are AI: This file implements the name -> Channel registry and
// its grace-period reclaim lifecycle.

package broadcast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxDowntime is the grace period during which a disconnected
// publisher may reclaim its stream name before the channel is torn
// down.
const DefaultMaxDowntime = 10 * time.Second

type registryEntry struct {
	channel    *Channel
	graceTimer *time.Timer
	epoch      uuid.UUID // set only while a grace timer is armed
}

// Registry is a name → Channel map with weak-reference lifecycle
// semantics: entries are created on first claim and removed once a
// channel's grace period expires with no reclaim; the expired channel
// is stopped, which closes the queues of any subscribers still
// attached. It is the only resource shared across channels and is
// guarded by a short critical section, exactly as the teacher's
// bus.Registry guards its own map with a sync.RWMutex.
type Registry struct {
	mu             sync.RWMutex
	streams        map[string]*registryEntry
	maxDowntime    time.Duration
	maxElementSize int64
}

// NewRegistry constructs an empty registry. maxDowntime <= 0 selects
// DefaultMaxDowntime; maxElementSize is forwarded to every channel it
// creates.
func NewRegistry(maxDowntime time.Duration, maxElementSize int64) *Registry {
	if maxDowntime <= 0 {
		maxDowntime = DefaultMaxDowntime
	}
	return &Registry{
		streams:        make(map[string]*registryEntry),
		maxDowntime:    maxDowntime,
		maxElementSize: maxElementSize,
	}
}

// Claim implements §4.5's claim operation: an unknown name creates a
// fresh Live channel; a name with an armed grace timer cancels the
// timer, gives the channel a fresh *matroska.Publisher for the
// reclaiming publisher's session (Channel.Reclaim), and hands back the
// existing channel, preserving its frozen header blob and subscribers;
// a name that is Live with no armed timer fails with NameTakenError.
func (r *Registry) Claim(name string) (*Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.streams[name]
	if !ok {
		ch := NewChannel(name, r.maxElementSize)
		r.streams[name] = &registryEntry{channel: ch}
		return ch, nil
	}
	if e.graceTimer == nil {
		return nil, &NameTakenError{Name: name}
	}
	e.graceTimer.Stop()
	e.graceTimer = nil
	e.epoch = uuid.UUID{}
	e.channel.Reclaim()
	return e.channel, nil
}

// Lookup returns the channel registered for name, or NotLiveError if no
// entry exists. A grace-armed entry still resolves — its publisher has
// disconnected but the channel (header blob, subscribers) remains
// reachable until the grace period actually expires, matching the
// name-takeover scenario where an in-flight subscriber observes
// continuous output across the publisher gap.
func (r *Registry) Lookup(name string) (*Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.streams[name]
	if !ok {
		return nil, &NotLiveError{Name: name}
	}
	return e.channel, nil
}

// Release arms a detached grace-period task for name: after
// maxDowntime with no reclaim, the channel is stopped and its entry
// removed. The timer closure carries only the channel, the name, and
// an epoch token — never a back-reference to the registry entry — so
// a publisher reclaiming the name via Claim races safely against a
// timer that is already in flight.
func (r *Registry) Release(name string, ch *Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.streams[name]
	if !ok || e.channel != ch {
		return
	}
	epoch := uuid.New()
	e.epoch = epoch
	e.graceTimer = time.AfterFunc(r.maxDowntime, func() {
		r.expire(name, epoch, ch)
	})
}

// expire is the grace timer's callback. It only stops the channel and
// removes the registry entry if the entry is still the one this timer
// was armed for — a concurrent Claim may have already reused the name,
// or a concurrent Release on a newer publisher generation may have
// armed a different timer.
func (r *Registry) expire(name string, epoch uuid.UUID, ch *Channel) {
	r.mu.Lock()
	e, ok := r.streams[name]
	stillCurrent := ok && e.epoch == epoch && e.channel == ch
	if stillCurrent {
		delete(r.streams, name)
	}
	r.mu.Unlock()

	if stillCurrent {
		ch.Stop()
	}
}

// Count returns the number of entries currently tracked, live or
// grace-armed.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.streams)
}

// Names returns the stream names currently tracked, live or
// grace-armed, for status introspection.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.streams))
	for name := range r.streams {
		names = append(names, name)
	}
	return names
}
