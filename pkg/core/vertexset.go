package core

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	firstStreamHeaderWords = 6
	firstStreamTailWords   = 2
	streamHeaderWords      = 4
)

// StreamDescriptor describes one stream of a vertex stream set. Header and
// Tail are kept verbatim; only the first stream of a set carries a tail.
type StreamDescriptor struct {
	Header    []uint32
	ChunkGUID uuid.UUID
	Tail      []uint32
}

// VertexStreamSet is the decoded payload of a KindVertexStreamSet block.
// HeaderTail holds the two header words whose meaning is unknown, Trailing
// the undocumented bytes between the last stream and the block end.
type VertexStreamSet struct {
	VertexCount uint32
	StreamCount uint32
	HeaderTail  [2]uint32
	Streams     []StreamDescriptor
	Trailing    []byte
}

// ParseVertexStreamSet decodes b. The first stream has a six word header and
// a two word tail after its GUID; every later stream has a four word header
// and no tail.
func ParseVertexStreamSet(b Block) (VertexStreamSet, error) {
	if b.Kind != KindVertexStreamSet {
		return VertexStreamSet{}, fmt.Errorf("parse vertex stream set: block at 0x%x is %s", b.Offset, b.Kind)
	}
	r := newPayloadReader(b)
	vs := VertexStreamSet{
		VertexCount: r.u32("vertex count"),
		StreamCount: r.u32("stream count"),
	}
	vs.HeaderTail[0] = r.u32("header word 2")
	vs.HeaderTail[1] = r.u32("header word 3")
	if r.err != nil {
		return VertexStreamSet{}, r.err
	}

	// Every stream needs at least a four word header and a GUID.
	minStream := streamHeaderWords*4 + GUIDSize
	if uint64(vs.StreamCount)*uint64(minStream) > uint64(r.remaining()) {
		return VertexStreamSet{}, fmt.Errorf("%w: %s: %d streams cannot fit in %d payload bytes",
			ErrMalformedContainer, b.Kind, vs.StreamCount, r.remaining())
	}

	vs.Streams = make([]StreamDescriptor, 0, vs.StreamCount)
	for i := 0; i < int(vs.StreamCount); i++ {
		var sd StreamDescriptor
		if i == 0 {
			sd.Header = r.words(firstStreamHeaderWords, "stream 0 header")
			sd.ChunkGUID = r.guid("stream 0 guid")
			sd.Tail = r.words(firstStreamTailWords, "stream 0 tail")
		} else {
			field := fmt.Sprintf("stream %d", i)
			sd.Header = r.words(streamHeaderWords, field+" header")
			sd.ChunkGUID = r.guid(field + " guid")
			sd.Tail = []uint32{}
		}
		if r.err != nil {
			return VertexStreamSet{}, r.err
		}
		vs.Streams = append(vs.Streams, sd)
	}
	vs.Trailing = r.rest()
	return vs, nil
}
