// If you are AI: This file parses SimpleBlock/BlockGroup headers: track
// number, relative timecode, and keyframe status.

package matroska

import "webmcast/internal/ebml"

// BlockHeader is the decoded head of a SimpleBlock or the inner Block
// of a BlockGroup: track number, the block's timecode relative to its
// Cluster's Timecode, and whether it carries a keyframe. Lacing is not
// decoded — WebM's audio codecs never lace and video blocks are never
// laced in practice — only the first few bytes are inspected.
type BlockHeader struct {
	TrackNumber     uint64
	RelativeTimecode int16
	Keyframe        bool
}

// parseSimpleBlock decodes a SimpleBlock's track number, relative
// timecode, and keyframe flag (bit 0x80 of the flags byte).
func parseSimpleBlock(body []byte) (BlockHeader, bool) {
	trackNum, width, ok := readBlockTrackNumber(body)
	if !ok || len(body) < width+3 {
		return BlockHeader{}, false
	}
	tc := int16(uint16(body[width])<<8 | uint16(body[width+1]))
	flags := body[width+2]
	return BlockHeader{
		TrackNumber:      trackNum,
		RelativeTimecode: tc,
		Keyframe:         flags&0x80 != 0,
	}, true
}

// parseBlockGroupKeyframe decodes the inner Block of a BlockGroup and
// applies Matroska's BlockGroup keyframe convention: a block is a
// keyframe iff the BlockGroup carries no ReferenceBlock child (a frame
// with no reference is, by definition, independently decodable).
func parseBlockGroupKeyframe(body []byte) (BlockHeader, bool) {
	var block BlockHeader
	var blockFound bool
	hasReference := false

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
		childBody := body[pos+tag.HeaderLen : pos+total]
		switch tag.ID {
		case ebml.IDBlock:
			if hdr, ok := parseSimpleBlock(childBody); ok {
				block = hdr
				blockFound = true
			}
		case ebml.IDReferenceBlock:
			hasReference = true
		}
		pos += total
	}
	if !blockFound {
		return BlockHeader{}, false
	}
	block.Keyframe = !hasReference
	return block, true
}

// readBlockTrackNumber decodes the VINT track number at the start of a
// (Simple)Block body.
func readBlockTrackNumber(body []byte) (trackNumber uint64, width int, ok bool) {
	return ebml.ReadVInt(body)
}
