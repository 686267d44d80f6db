// If you are AI: This file rewrites the Segment Info element, voiding
// Duration and capturing TimecodeScale.

package matroska

import "webmcast/internal/ebml"

// DefaultTimecodeScale is the nanoseconds-per-Timecode-unit value
// assumed when a Segment Info element omits TimecodeScale, per the
// Matroska specification's own default.
const DefaultTimecodeScale = 1000000

// rewriteInfo walks a Segment Info element's body and returns its
// TimecodeScale (or the default, if absent) along with a copy of the
// body with any Duration child voided. A live broadcast has no known
// total duration, and a stale Duration value confuses some WebM
// consumers into seeking against it; every subscriber's copy of Info
// must never carry one.
func rewriteInfo(body []byte) (timecodeScale uint64, rewritten []byte) {
	timecodeScale = DefaultTimecodeScale
	out := make([]byte, 0, len(body))

	pos := 0
	for pos < len(body) {
		tag, ok, err := ebml.ParseTag(body[pos:], int64(pos))
		if err != nil || !ok {
			break
		}
		total := tag.HeaderLen + int(tag.Size)
		if tag.Unknown || pos+total > len(body) {
			break
		}
		if tag.ID == ebml.IDDuration {
			pos += total
			continue
		}
		if tag.ID == ebml.IDTimecodeScale {
			timecodeScale = ebml.DecodeUint(body[pos+tag.HeaderLen : pos+total])
		}
		out = append(out, body[pos:pos+total]...)
		pos += total
	}
	return timecodeScale, out
}

// encodeInfoElement wraps an already-rewritten Info body in its own
// element header.
func encodeInfoElement(body []byte) []byte {
	out := append([]byte(nil), ebml.EncodeElementID(ebml.IDInfo)...)
	sizeEnc, err := ebml.EncodeElementSize(uint64(len(body)))
	if err != nil {
		// len(body) derives from a stream we already accepted under
		// MaxElementSize, so this cannot exceed the VINT width cap.
		panic(err)
	}
	out = append(out, sizeEnc...)
	out = append(out, body...)
	return out
}
