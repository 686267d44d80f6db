// If you are AI: This file documents package scope only; no logic lives here.

// Package matroska implements the publisher- and subscriber-side
// rewrite state machines that sit on top of internal/ebml: capturing
// the init segment (header blob) from a live publisher feed, detecting
// keyframe Clusters without buffering a whole Cluster, and re-emitting
// a per-subscriber Cluster stream whose Timecodes are rebased to start
// at zero.
package matroska
