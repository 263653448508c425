package core

import (
	"fmt"

	"github.com/google/uuid"
)

// Container holds the blocks of one core file together with the decoded
// stream topology. Vertex stream sets and index streams are keyed by the GUID
// of the block that carries them; primitives keep container order.
type Container struct {
	Blocks       []Block
	VertexSets   map[uuid.UUID]VertexStreamSet
	IndexStreams map[uuid.UUID]IndexStream
	Primitives   []PrimitiveReference
}

// Parse reads every block in data and decodes the stream topology blocks.
// Any malformed block aborts the parse.
func Parse(data []byte) (*Container, error) {
	c := &Container{
		VertexSets:   make(map[uuid.UUID]VertexStreamSet),
		IndexStreams: make(map[uuid.UUID]IndexStream),
	}
	for b, err := range Blocks(data) {
		if err != nil {
			return nil, err
		}
		c.Blocks = append(c.Blocks, b)
		switch b.Kind {
		case KindVertexStreamSet:
			vs, err := ParseVertexStreamSet(b)
			if err != nil {
				return nil, err
			}
			c.VertexSets[b.GUID] = vs
		case KindIndexStream:
			is, err := ParseIndexStream(b)
			if err != nil {
				return nil, err
			}
			c.IndexStreams[b.GUID] = is
		case KindRenderingPrimitive:
			p, err := ParsePrimitiveReference(b)
			if err != nil {
				return nil, err
			}
			c.Primitives = append(c.Primitives, p)
		}
	}
	return c, nil
}

// Decode dispatches b to its interpreter. Blocks without an interpreter
// return ErrUnknownKind; callers treat that as "left raw", not as a failure.
func Decode(b Block) (any, error) {
	switch b.Kind {
	case KindVertexStreamSet:
		return ParseVertexStreamSet(b)
	case KindIndexStream:
		return ParseIndexStream(b)
	case KindRenderingPrimitive:
		return ParsePrimitiveReference(b)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, b.Kind)
	}
}
