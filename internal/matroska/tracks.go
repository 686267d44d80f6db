// If you are AI: This file parses the Tracks element to find the
// declared video track number.

package matroska

import "webmcast/internal/ebml"

// TrackInfo is the subset of a TrackEntry the rewriter cares about:
// enough to recognize the video track a keyframe Cluster must
// reference.
type TrackInfo struct {
	Number uint64
	Type   uint64
}

// parseTracks walks a fully-buffered Tracks element's body (everything
// after its own header) and returns one TrackInfo per TrackEntry
// found. Malformed TrackEntry children are skipped rather than failing
// the whole stream — the spec only requires Tracks to be present
// before the first Cluster, not every entry to be well-formed.
func parseTracks(body []byte) []TrackInfo {
	var tracks []TrackInfo
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
		if tag.ID == ebml.IDTrackEntry {
			entryBody := body[pos+tag.HeaderLen : pos+total]
			if info, ok := parseTrackEntry(entryBody); ok {
				tracks = append(tracks, info)
			}
		}
		pos += total
	}
	return tracks
}

// parseTrackEntry decodes a single TrackEntry body into a TrackInfo,
// reporting false if it never declared a TrackNumber.
func parseTrackEntry(body []byte) (TrackInfo, bool) {
	var info TrackInfo
	found := false
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
		case ebml.IDTrackNumber:
			info.Number = ebml.DecodeUint(childBody)
			found = true
		case ebml.IDTrackType:
			info.Type = ebml.DecodeUint(childBody)
		}
		pos += total
	}
	return info, found
}

// videoTrackNumber returns the track number of the first video track
// declared, matching the original implementation's semantics of
// inspecting TrackType rather than assuming the video track is always
// numbered 1.
func videoTrackNumber(tracks []TrackInfo) (uint64, bool) {
	for _, tr := range tracks {
		if tr.Type == ebml.TrackTypeVideo {
			return tr.Number, true
		}
	}
	return 0, false
}
