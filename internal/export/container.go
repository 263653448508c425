package export

import (
	"github.com/google/uuid"

	"github.com/samcharles93/corestream/pkg/core"
)

// ContainerMesh exposes the rendering primitives of a parsed container as a
// Mesh. A primitive whose vertex reference does not name a vertex stream set
// in the container reports no vertex stream.
type ContainerMesh struct {
	prims []Primitive
}

func NewContainerMesh(c *core.Container) *ContainerMesh {
	m := &ContainerMesh{prims: make([]Primitive, len(c.Primitives))}
	for i, p := range c.Primitives {
		_, ok := c.VertexSets[p.VertexRef]
		m.prims[i] = containerPrimitive{ref: p.VertexRef, ok: ok}
	}
	return m
}

func (m *ContainerMesh) Primitives() []Primitive { return m.prims }

type containerPrimitive struct {
	ref uuid.UUID
	ok  bool
}

func (p containerPrimitive) VertexStream() (VertexStreamRef, bool) {
	if !p.ok {
		return nil, false
	}
	return guidRef(p.ref), true
}

type guidRef uuid.UUID

func (g guidRef) GUID() uuid.UUID { return uuid.UUID(g) }
