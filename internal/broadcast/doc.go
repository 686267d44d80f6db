// If you are AI: This file documents package scope only; no logic lives here.

// Package broadcast implements the live broadcast channel: one
// publisher-side rewriter plus a set of subscriber slots, the bounded
// per-subscriber backpressure queue, and the stream registry that maps
// names to channels with grace-period reclaim semantics.
package broadcast
