// If you are AI: This file implements the publisher-side rewrite state
// machine (ExpectHeader -> InHeader -> InBody -> Done) that freezes the
// init segment and hands Clusters off for fan-out.

package matroska

import (
	"bytes"

	"github.com/oxtoacart/bpool"

	"webmcast/internal/ebml"
)

// PublisherState is the publisher-side rewrite state machine: capture
// the init segment once, then stream Clusters for the rest of the
// session.
type PublisherState int

const (
	ExpectHeader PublisherState = iota
	InHeader
	InBody
	Done
)

// String implements fmt.Stringer.
func (s PublisherState) String() string {
	switch s {
	case ExpectHeader:
		return "ExpectHeader"
	case InHeader:
		return "InHeader"
	case InBody:
		return "InBody"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// clusterBufferPoolSize bounds how many Cluster accumulation buffers
// are kept warm between uses. A publisher rarely has more than a
// handful of Clusters in flight (one per Feed call plus whatever the
// fan-out in Channel.Send hasn't released yet).
const clusterBufferPoolSize = 8

// clusterAccum tracks a Cluster being assembled across possibly many
// Feed calls: its raw bytes so far, how many more bytes it declares
// (or -1 if unknown length, terminated by the next sibling header),
// and whatever the rewriter has learned from its first few children.
type clusterAccum struct {
	raw            *bytes.Buffer
	remaining      int64 // -1 for unknown length
	timecode       uint64
	timecodeOffset int
	timecodeWidth  int
	timecodeSeen   bool
	blockSeen      bool
	keyframe       bool
	trackNumber    uint64
}

// Publisher consumes a live publisher's byte stream, freezes the init
// segment as soon as the first Cluster arrives, and hands each
// fully-buffered Cluster to its caller as a ClusterEvent for fan-out.
type Publisher struct {
	scanner *ebml.Scanner
	state   PublisherState

	headerBuf  bytes.Buffer
	headerBlob []byte

	tracksSeen bool
	tracks     []TrackInfo
	videoTrack uint64
	haveVideo  bool

	timecodeScale uint64

	cluster *clusterAccum
	bufPool *bpool.BufferPool
}

// NewPublisher constructs a publisher-side rewriter. maxElementSize
// bounds any single element's declared size, non-positive selects
// ebml.DefaultMaxElementSize.
func NewPublisher(maxElementSize int64) *Publisher {
	return &Publisher{
		scanner: ebml.NewScanner(maxElementSize),
		state:   ExpectHeader,
		bufPool: bpool.NewBufferPool(clusterBufferPoolSize),
	}
}

// State reports the publisher's current rewrite state.
func (p *Publisher) State() PublisherState {
	return p.state
}

// HeaderBlob returns the frozen init segment, or nil if the first
// Cluster has not arrived yet.
func (p *Publisher) HeaderBlob() []byte {
	return p.headerBlob
}

// VideoTrackNumber returns the track number of the declared video
// track and whether Tracks has been seen yet.
func (p *Publisher) VideoTrackNumber() (uint64, bool) {
	return p.videoTrack, p.haveVideo
}

// TimecodeScale returns the Segment Info TimecodeScale, valid once the
// header blob has frozen.
func (p *Publisher) TimecodeScale() uint64 {
	if p.timecodeScale == 0 {
		return DefaultTimecodeScale
	}
	return p.timecodeScale
}

// Feed advances the state machine with newly received publisher bytes
// and returns every Cluster that became fully buffered as a result. A
// nil error with no events simply means more bytes are needed. Once
// Feed returns a *ebml.MalformedEBMLError, the Publisher must not be
// fed further — the caller tears the channel down.
func (p *Publisher) Feed(data []byte) ([]ClusterEvent, error) {
	if p.state == Done {
		return nil, nil
	}
	p.scanner.Feed(data)

	var events []ClusterEvent
	for {
		switch p.state {
		case ExpectHeader:
			advanced, err := p.feedExpectHeader()
			if err != nil {
				return events, err
			}
			if !advanced {
				return events, nil
			}
		case InHeader:
			advanced, err := p.feedInHeader()
			if err != nil {
				return events, err
			}
			if !advanced {
				return events, nil
			}
		case InBody:
			ev, advanced, err := p.feedInBody()
			if err != nil {
				return events, err
			}
			if ev != nil {
				events = append(events, *ev)
			}
			if !advanced {
				return events, nil
			}
		case Done:
			return events, nil
		}
	}
}

// Finish marks end-of-stream on the publisher side. It never fails:
// any in-flight (incomplete) Cluster is simply discarded, matching
// "PublisherDisconnect" being a clean transition rather than an error.
func (p *Publisher) Finish() {
	p.state = Done
	if p.cluster != nil {
		p.bufPool.Put(p.cluster.raw)
		p.cluster = nil
	}
}

// feedExpectHeader consumes the leading EBML Header element verbatim
// and advances to InHeader.
func (p *Publisher) feedExpectHeader() (advanced bool, err error) {
	tag, ok, err := p.scanner.Next()
	if err != nil || !ok {
		return false, err
	}
	if tag.ID != ebml.IDEBMLHeader {
		return false, &ebml.MalformedEBMLError{
			Offset: p.scanner.Offset(),
			Reason: "expected EBML Header as the first element",
		}
	}
	if tag.Unknown {
		return false, &ebml.MalformedEBMLError{
			Offset: p.scanner.Offset(),
			Reason: "EBML Header must not have unknown length",
		}
	}
	total := tag.HeaderLen + int(tag.Size)
	if p.scanner.Buffered() < total {
		return false, nil
	}
	p.headerBuf.Write(p.scanner.Peek(total))
	p.scanner.Discard(total)
	p.state = InHeader
	return true, nil
}

// feedInHeader consumes Segment Info/Tracks/SeekHead/Cues and other
// init-segment children, rewriting or discarding each as appropriate,
// until the first Cluster freezes the header blob.
func (p *Publisher) feedInHeader() (advanced bool, err error) {
	tag, ok, err := p.scanner.Next()
	if err != nil || !ok {
		return false, err
	}

	switch tag.ID {
	case ebml.IDSegment:
		p.scanner.Discard(tag.HeaderLen)
		p.headerBuf.Write(ebml.EncodeElementID(ebml.IDSegment))
		p.headerBuf.Write(ebml.UnknownLengthSize(8))
		return true, nil

	case ebml.IDCluster:
		if !p.tracksSeen {
			return false, &ebml.MalformedEBMLError{
				Offset: p.scanner.Offset(),
				Reason: "Cluster arrived before Tracks completed the init segment",
			}
		}
		p.headerBlob = append([]byte(nil), p.headerBuf.Bytes()...)
		p.state = InBody
		return true, nil

	case ebml.IDInfo:
		if tag.Unknown {
			return false, &ebml.MalformedEBMLError{Offset: p.scanner.Offset(), Reason: "Segment Info must not have unknown length"}
		}
		total := tag.HeaderLen + int(tag.Size)
		if p.scanner.Buffered() < total {
			return false, nil
		}
		body := append([]byte(nil), p.scanner.Peek(total)[tag.HeaderLen:]...)
		p.scanner.Discard(total)
		scale, rewritten := rewriteInfo(body)
		p.timecodeScale = scale
		p.headerBuf.Write(encodeInfoElement(rewritten))
		return true, nil

	case ebml.IDTracks:
		if tag.Unknown {
			return false, &ebml.MalformedEBMLError{Offset: p.scanner.Offset(), Reason: "Tracks must not have unknown length"}
		}
		total := tag.HeaderLen + int(tag.Size)
		if p.scanner.Buffered() < total {
			return false, nil
		}
		raw := append([]byte(nil), p.scanner.Peek(total)...)
		p.scanner.Discard(total)
		p.tracks = parseTracks(raw[tag.HeaderLen:])
		if vt, ok := videoTrackNumber(p.tracks); ok {
			p.videoTrack = vt
			p.haveVideo = true
		}
		p.tracksSeen = true
		p.headerBuf.Write(raw)
		return true, nil

	case ebml.IDSeekHead, ebml.IDCues:
		// Discarded: both reference absolute byte offsets that this
		// rewrite invalidates.
		if tag.Unknown {
			return false, &ebml.MalformedEBMLError{Offset: p.scanner.Offset(), Reason: "SeekHead/Cues must not have unknown length"}
		}
		total := tag.HeaderLen + int(tag.Size)
		if p.scanner.Buffered() < total {
			return false, nil
		}
		p.scanner.Discard(total)
		return true, nil

	default:
		// Void, CRC-32, Tags, Attachments, Chapters: passed through
		// verbatim. Their byte ranges carry no absolute offsets.
		if tag.Unknown {
			return false, &ebml.MalformedEBMLError{Offset: p.scanner.Offset(), Reason: "unexpected element with unknown length before first Cluster"}
		}
		total := tag.HeaderLen + int(tag.Size)
		if p.scanner.Buffered() < total {
			return false, nil
		}
		p.headerBuf.Write(p.scanner.Peek(total))
		p.scanner.Discard(total)
		return true, nil
	}
}

