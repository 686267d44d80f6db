// If you are AI: This file implements Cluster-body accumulation across
// Feed calls, including unknown-length termination and pooled buffers.

package matroska

import (
	"webmcast/internal/ebml"
)

// feedInBody advances InBody: either starting a new clusterAccum off
// the Segment body's next tag, or continuing the one already started.
func (p *Publisher) feedInBody() (*ClusterEvent, bool, error) {
	if p.cluster == nil {
		tag, ok, err := p.scanner.Next()
		if err != nil || !ok {
			return nil, false, err
		}
		if tag.ID == ebml.IDCues || tag.ID == ebml.IDVoid || tag.ID == ebml.IDCRC32 {
			if tag.Unknown {
				return nil, false, &ebml.MalformedEBMLError{Offset: p.scanner.Offset(), Reason: "trailing element must not have unknown length"}
			}
			total := tag.HeaderLen + int(tag.Size)
			if p.scanner.Buffered() < total {
				return nil, false, nil
			}
			p.scanner.Discard(total)
			return nil, true, nil
		}
		if tag.ID != ebml.IDCluster {
			return nil, false, &ebml.MalformedEBMLError{Offset: p.scanner.Offset(), Reason: "expected Cluster at Segment body level"}
		}
		p.scanner.Discard(tag.HeaderLen)
		accum := &clusterAccum{remaining: -1, raw: p.bufPool.Get()}
		if !tag.Unknown {
			accum.remaining = tag.Size
		}
		accum.raw.Write(ebml.EncodeElementID(ebml.IDCluster))
		if tag.Unknown {
			accum.raw.Write(ebml.UnknownLengthSize(1))
		} else {
			sizeEnc, encErr := ebml.EncodeElementSize(uint64(tag.Size))
			if encErr != nil {
				return nil, false, &ebml.MalformedEBMLError{Offset: p.scanner.Offset(), Reason: "Cluster size not encodable"}
			}
			accum.raw.Write(sizeEnc)
		}
		p.cluster = accum
	}

	return p.feedClusterChild()
}

// feedClusterChild consumes one more child of the Cluster currently
// being accumulated, recording the Timecode position/width and the
// first block's keyframe/track-number, and finishes the Cluster once
// its declared size is exhausted or, for unknown-length Clusters, once
// the next sibling header (Cluster or Cues) is seen.
func (p *Publisher) feedClusterChild() (*ClusterEvent, bool, error) {
	accum := p.cluster

	if accum.remaining == 0 {
		return p.finishCluster(), true, nil
	}

	tag, ok, err := p.scanner.Next()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	if accum.remaining < 0 && (tag.ID == ebml.IDCluster || tag.ID == ebml.IDCues) {
		// Unknown-length Cluster terminated by the next sibling header;
		// leave this tag unconsumed for the next feedInBody call.
		return p.finishCluster(), true, nil
	}

	if tag.Unknown {
		return nil, false, &ebml.MalformedEBMLError{Offset: p.scanner.Offset(), Reason: "Cluster child must not have unknown length"}
	}
	total := tag.HeaderLen + int(tag.Size)
	if p.scanner.Buffered() < total {
		return nil, false, nil
	}
	raw := p.scanner.Peek(total)

	switch tag.ID {
	case ebml.IDTimecode:
		if !accum.timecodeSeen {
			accum.timecode = ebml.DecodeUint(raw[tag.HeaderLen:])
			accum.timecodeOffset = accum.raw.Len() + tag.HeaderLen
			accum.timecodeWidth = int(tag.Size)
			accum.timecodeSeen = true
		}
	case ebml.IDSimpleBlock:
		if !accum.blockSeen {
			if hdr, ok := parseSimpleBlock(raw[tag.HeaderLen:]); ok {
				accum.blockSeen = true
				accum.keyframe = hdr.Keyframe
				accum.trackNumber = hdr.TrackNumber
			}
		}
	case ebml.IDBlockGroup:
		if !accum.blockSeen {
			if hdr, ok := parseBlockGroupKeyframe(raw[tag.HeaderLen:]); ok {
				accum.blockSeen = true
				accum.keyframe = hdr.Keyframe
				accum.trackNumber = hdr.TrackNumber
			}
		}
	}

	accum.raw.Write(raw)
	if accum.remaining > 0 {
		accum.remaining -= int64(total)
	}
	p.scanner.Discard(total)

	if accum.remaining == 0 {
		return p.finishCluster(), true, nil
	}
	return nil, true, nil
}

// finishCluster closes out the in-flight clusterAccum, returning its
// pooled buffer directly if no Timecode was ever seen (a malformed or
// truncated Cluster produces no event), or wrapping it in a
// ClusterEvent whose Release returns the buffer once every subscriber
// has copied out the bytes it needs.
func (p *Publisher) finishCluster() *ClusterEvent {
	accum := p.cluster
	p.cluster = nil
	if !accum.timecodeSeen {
		p.bufPool.Put(accum.raw)
		return nil
	}
	pool, buf := p.bufPool, accum.raw
	return &ClusterEvent{
		Raw:                 buf.Bytes(),
		Timecode:            accum.timecode,
		Keyframe:            accum.blockSeen && accum.keyframe,
		TrackNumber:         accum.trackNumber,
		TimecodeValueOffset: accum.timecodeOffset,
		TimecodeValueWidth:  accum.timecodeWidth,
		release:             func() { pool.Put(buf) },
	}
}
