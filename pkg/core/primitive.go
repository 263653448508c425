package core

import (
	"fmt"

	"github.com/google/uuid"
)

// PrimitiveReference is the decoded payload of a KindRenderingPrimitive block.
// VertexRef and IndexRef are lookup keys into the vertex stream sets and index
// streams of the same container. The type tags preceding each reference are
// kept but not validated.
type PrimitiveReference struct {
	GUID      uuid.UUID
	VertexRef uuid.UUID
	IndexRef  uuid.UUID
	VertexTag uint8
	IndexTag  uint8
}

func ParsePrimitiveReference(b Block) (PrimitiveReference, error) {
	if b.Kind != KindRenderingPrimitive {
		return PrimitiveReference{}, fmt.Errorf("parse primitive reference: block at 0x%x is %s", b.Offset, b.Kind)
	}
	r := newPayloadReader(b)
	r.skip(4, "flags")
	p := PrimitiveReference{GUID: b.GUID}
	p.VertexTag = r.u8("vertex ref tag")
	p.VertexRef = r.guid("vertex ref")
	p.IndexTag = r.u8("index ref tag")
	p.IndexRef = r.guid("index ref")
	if r.err != nil {
		return PrimitiveReference{}, r.err
	}
	return p, nil
}
