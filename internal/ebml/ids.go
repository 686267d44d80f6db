// If you are AI: This file defines the Matroska/WebM element ID
// constants this package cares about.

package ebml

// Element IDs used by the rewriter. Values include the VINT marker bit,
// matching how they appear on the wire (an element ID is not
// re-normalized the way a size VINT is).
const (
	IDEBMLHeader    uint64 = 0x1A45DFA3
	IDSegment       uint64 = 0x18538067
	IDSeekHead      uint64 = 0x114D9B74
	IDSeek          uint64 = 0x4DBB
	IDInfo          uint64 = 0x1549A966
	IDTimecodeScale uint64 = 0x2AD7B1
	IDDuration      uint64 = 0x4489
	IDTracks        uint64 = 0x1654AE6B
	IDTrackEntry    uint64 = 0xAE
	IDTrackNumber   uint64 = 0xD7
	IDTrackType     uint64 = 0x83
	IDVideo         uint64 = 0xE0
	IDAudio         uint64 = 0xE1
	IDCluster       uint64 = 0x1F43B675
	IDTimecode      uint64 = 0xE7
	IDSimpleBlock   uint64 = 0xA3
	IDBlockGroup    uint64 = 0xA0
	IDBlock         uint64 = 0xA1
	IDReferenceBlock uint64 = 0xFB
	IDCues          uint64 = 0x1C53BB6B
	IDVoid          uint64 = 0xEC
	IDCRC32         uint64 = 0xBF
)

// TrackTypeVideo is the TrackType value identifying a video track, per
// the Matroska specification.
const TrackTypeVideo = 1
