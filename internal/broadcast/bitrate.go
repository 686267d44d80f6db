// If you are AI: This file implements an EWMA bitrate estimator ticked
// on elapsed wall-clock time.

package broadcast

import (
	"sync"
	"time"
)

const bitrateBucketInterval = 500 * time.Millisecond

// bitrateEstimator tracks an exponentially-weighted moving average of
// bytes/second, updated as each bucket's wall-clock interval elapses.
// At a=0.5 per 0.5s bucket an older bucket's weight halves with every
// bucket that follows, so the estimate mostly reflects the last second
// or two; it is not a 16-bucket sliding window. Not consulted by the
// core today, kept for future adaptive-bitrate use exactly as upstream
// does.
type bitrateEstimator struct {
	mu       sync.Mutex
	lastTick time.Time
	pending  int64
	rate     float64
}

// newBitrateEstimator returns a zeroed estimator ticking from now.
func newBitrateEstimator() *bitrateEstimator {
	return &bitrateEstimator{lastTick: time.Now()}
}

// add records n freshly published bytes.
func (b *bitrateEstimator) add(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tickLocked(time.Now())
	b.pending += int64(n)
}

// estimate returns the current bytes/second estimate.
func (b *bitrateEstimator) estimate() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tickLocked(time.Now())
	return b.rate
}

// tickLocked folds any whole elapsed buckets since lastTick into rate.
// Callers must hold b.mu.
func (b *bitrateEstimator) tickLocked(now time.Time) {
	for now.Sub(b.lastTick) >= bitrateBucketInterval {
		instant := float64(b.pending) / bitrateBucketInterval.Seconds()
		b.rate = 0.5*instant + 0.5*b.rate
		b.pending = 0
		b.lastTick = b.lastTick.Add(bitrateBucketInterval)
	}
}
