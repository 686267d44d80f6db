// If you are AI: This file documents package scope only; no logic lives here.

// Package ebml implements the element-framing layer of EBML (Extensible
// Binary Meta Language), the binary format underlying Matroska and WebM.
// It decodes and encodes variable-length integers, recognizes the
// unknown-length sentinel used by live streams, and exposes an
// incremental scanner that turns an append-only byte feed into a
// sequence of element headers without ever requiring the whole stream
// to be buffered.
package ebml
