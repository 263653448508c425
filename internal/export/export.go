// Package export is the boundary between parsed containers and a host that
// writes meshes back out. Shared vertex stream sets cannot be repacked yet, so
// every export attempt fails with ErrUnsupportedFormat after naming the host
// objects that would have to be rewritten together.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedFormat = errors.New("export: unsupported mesh format")

// VertexStreamRef points at the vertex stream set a primitive draws from.
type VertexStreamRef interface {
	GUID() uuid.UUID
}

// Primitive is one host primitive. VertexStream returns false when the host
// exposes no vertex stream reference.
type Primitive interface {
	VertexStream() (VertexStreamRef, bool)
}

// Mesh is a host mesh with its primitives in file order.
type Mesh interface {
	Primitives() []Primitive
}

// PrimitiveBinding links a primitive position to the host object exported
// for it.
type PrimitiveBinding struct {
	Index    int
	MeshName string
}

func (b PrimitiveBinding) ObjectName() string {
	return fmt.Sprintf("%d_%s", b.Index, b.MeshName)
}

// CollectSharing returns a binding for every primitive of mesh that draws
// from the vertex stream set vertexSet. Primitives without a reference are
// skipped.
func CollectSharing(mesh Mesh, vertexSet uuid.UUID, meshName string) []PrimitiveBinding {
	var out []PrimitiveBinding
	for i, p := range mesh.Primitives() {
		ref, ok := p.VertexStream()
		if !ok || ref == nil {
			continue
		}
		if ref.GUID() == vertexSet {
			out = append(out, PrimitiveBinding{Index: i, MeshName: meshName})
		}
	}
	return out
}

// ExportPrimitive always fails. The error lists the object names bound to
// the primitive's vertex stream set so the caller can report what a repack
// would touch.
func ExportPrimitive(mesh Mesh, p Primitive, meshName string) ([]PrimitiveBinding, error) {
	ref, ok := p.VertexStream()
	if !ok || ref == nil {
		return nil, fmt.Errorf("%w: primitive has no vertex stream reference", ErrUnsupportedFormat)
	}
	bindings := CollectSharing(mesh, ref.GUID(), meshName)
	names := make([]string, len(bindings))
	for i, b := range bindings {
		names[i] = b.ObjectName()
	}
	return bindings, fmt.Errorf("%w: shared vertex and index streams must be repacked (referenced objects: %s)",
		ErrUnsupportedFormat, strings.Join(names, ", "))
}
