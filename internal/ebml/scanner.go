// If you are AI: This file implements the incremental tag scanner that
// buffers bytes across Feed calls and yields fully-buffered Tags.

package ebml

// DefaultMaxElementSize is the rejection threshold for any single
// element's declared (known) size, a denial-of-service guard against a
// publisher declaring an implausibly large Cluster or leaf element.
const DefaultMaxElementSize = 64 << 20

// Scanner turns an append-only byte feed into a sequence of element
// headers. It never requires the whole stream to be resident: bytes
// already consumed by the caller (header plus whatever payload the
// caller chose to read) are released with Discard.
type Scanner struct {
	buf            []byte
	off            int64
	maxElementSize int64
}

// NewScanner returns a Scanner enforcing maxElementSize on every known-
// length element header it decodes. A non-positive value selects
// DefaultMaxElementSize.
func NewScanner(maxElementSize int64) *Scanner {
	if maxElementSize <= 0 {
		maxElementSize = DefaultMaxElementSize
	}
	return &Scanner{maxElementSize: maxElementSize}
}

// Feed appends newly received bytes to the scanner's buffer.
func (s *Scanner) Feed(data []byte) {
	s.buf = append(s.buf, data...)
}

// Next attempts to decode the next element header at the current
// cursor. ok is false if more bytes are needed; it is not an error.
// The header bytes are not consumed — call Discard once the caller has
// decided how much of the element (header and/or payload) to consume.
func (s *Scanner) Next() (tag Tag, ok bool, err error) {
	if len(s.buf) == 0 {
		return Tag{}, false, nil
	}
	tag, ok, err = ParseTag(s.buf, s.off)
	if err != nil || !ok {
		return Tag{}, false, err
	}
	if !tag.Unknown && tag.Size > s.maxElementSize {
		return Tag{}, false, &MalformedEBMLError{
			Offset: s.off,
			Reason: "element size exceeds configured maximum",
		}
	}
	return tag, true, nil
}

// Discard drops the first n bytes from the scanner's buffer, advancing
// the absolute offset used for subsequent error reporting. Callers
// discard a tag's HeaderLen once they've recorded it, and additionally
// discard payload bytes as they consume them.
func (s *Scanner) Discard(n int) {
	s.buf = s.buf[n:]
	s.off += int64(n)
}

// Buffered reports how many bytes are currently held at the cursor.
func (s *Scanner) Buffered() int {
	return len(s.buf)
}

// Peek returns the n bytes starting at the cursor, or nil if fewer
// than n bytes are currently buffered.
func (s *Scanner) Peek(n int) []byte {
	if n > len(s.buf) {
		return nil
	}
	return s.buf[:n]
}

// Offset returns the absolute stream offset of the scanner's cursor.
func (s *Scanner) Offset() int64 {
	return s.off
}
