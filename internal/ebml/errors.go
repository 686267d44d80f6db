// If you are AI: This file defines MalformedEBMLError, the tokenizer's
// sentinel error type.

package ebml

import "fmt"

// MalformedEBMLError reports that the tokenizer could not make
// progress at a given byte offset: an ill-formed VINT, a declared
// element size exceeding the configured cap, or (from the matroska
// rewriter) an element out of place or with an unknown length where
// none is allowed. A truncated element at end of stream is not
// reported: matroska.Publisher.Finish discards it without an error.
type MalformedEBMLError struct {
	Offset int64
	Reason string
}

// Error implements the error interface.
func (e *MalformedEBMLError) Error() string {
	return fmt.Sprintf("malformed ebml at offset %d: %s", e.Offset, e.Reason)
}
