// If you are AI: This file defines Tag and ParseTag, the single-element
// header decoder the scanner builds on.

package ebml

// Tag is a decoded element header: an id, a declared size (meaningless
// when Unknown is set), and the number of bytes the header itself
// occupied on the wire.
type Tag struct {
	ID        uint64
	Size      int64
	Unknown   bool
	HeaderLen int
}

// ParseTag decodes one element header from the start of data. ok is
// false when data does not yet contain the whole header — the caller
// should buffer more bytes and retry; this is not an error. offset is
// the absolute stream position of data[0], used only to annotate
// errors.
func ParseTag(data []byte, offset int64) (tag Tag, ok bool, err error) {
	id, idWidth, idOK, err := ReadElementID(data, offset)
	if err != nil {
		return Tag{}, false, err
	}
	if !idOK {
		return Tag{}, false, nil
	}
	size, unknown, sizeWidth, sizeOK, err := ReadElementSize(data[idWidth:], offset+int64(idWidth))
	if err != nil {
		return Tag{}, false, err
	}
	if !sizeOK {
		return Tag{}, false, nil
	}
	return Tag{
		ID:        id,
		Size:      size,
		Unknown:   unknown,
		HeaderLen: idWidth + sizeWidth,
	}, true, nil
}
