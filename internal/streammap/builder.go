// Package streammap reconciles the stream topology parsed from a core file
// with the buffer views of its companion .dmf export and produces the stream
// map consumed by downstream mesh tooling.
package streammap

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/samcharles93/corestream/internal/logger"
	"github.com/samcharles93/corestream/pkg/core"
)

// Map is keyed by vertex stream set GUID.
type Map map[string]Entry

// Entry is the stream layout of one vertex stream set. Struct fields are
// declared in key order so encoded output is sorted throughout.
type Entry struct {
	Index         IndexInfo     `json:"index"`
	PrimitiveGUID string        `json:"primitiveGuid"`
	Streams       []StreamEntry `json:"streams"`
	VertexCount   uint32        `json:"vertexCount"`
}

// StreamEntry is one buffer view of a primitive and the attributes that read
// from it. All attributes of a view are assumed to share the stride of the
// first one; this is not checked.
type StreamEntry struct {
	Attributes   []Attribute `json:"attributes"`
	BufferViewID int64       `json:"bufferViewId"`
	Length       int64       `json:"length"`
	Offset       int64       `json:"offset"`
	Stride       *int64      `json:"stride"`
}

type IndexInfo struct {
	BufferViewID *int64 `json:"bufferViewId"`
	Count        *int64 `json:"count"`
	Size         *int64 `json:"size"`
}

// Input is everything Build reconciles. IndexStreams may be empty, in which
// case primitive index references are not checked.
type Input struct {
	VertexSets   map[uuid.UUID]core.VertexStreamSet
	IndexStreams map[uuid.UUID]core.IndexStream
	Primitives   []core.PrimitiveReference
	Document     *Document
}

// InputFrom pairs a parsed container with a dmf document.
func InputFrom(c *core.Container, doc *Document) Input {
	return Input{
		VertexSets:   c.VertexSets,
		IndexStreams: c.IndexStreams,
		Primitives:   c.Primitives,
		Document:     doc,
	}
}

// Build produces the stream map. Core and dmf primitives are paired by
// position because the export carries no GUIDs; when the counts differ the
// longer list is truncated and a warning is logged. Any unresolved reference
// fails the whole build.
func Build(in Input, log logger.Logger) (Map, error) {
	docPrims := in.Document.Primitives()
	limit := min(len(in.Primitives), len(docPrims))
	if limit == 0 {
		return nil, ErrNoPrimitives
	}
	if len(in.Primitives) != len(docPrims) {
		log.Warn("primitive count mismatch between core and dmf; truncating",
			"core", len(in.Primitives), "dmf", len(docPrims), "paired", limit)
	}

	out := make(Map, limit)
	for i := 0; i < limit; i++ {
		ref := in.Primitives[i]
		vs, ok := in.VertexSets[ref.VertexRef]
		if !ok {
			return nil, fmt.Errorf("%w: primitive %d (%s): vertex stream set %s not found in core",
				ErrUnresolvedReference, i, ref.GUID, ref.VertexRef)
		}
		if len(in.IndexStreams) > 0 {
			if _, ok := in.IndexStreams[ref.IndexRef]; !ok {
				return nil, fmt.Errorf("%w: primitive %d (%s): index stream %s not found in core",
					ErrUnresolvedReference, i, ref.GUID, ref.IndexRef)
			}
		}

		prim := docPrims[i]
		streams, err := buildStreams(prim.VertexAttributes, in.Document.BufferViews)
		if err != nil {
			return nil, fmt.Errorf("primitive %d (%s): %w", i, ref.GUID, err)
		}

		key := ref.VertexRef.String()
		if prev, ok := out[key]; ok {
			log.Debug("vertex stream set shared by several primitives; keeping the last",
				"vertex_set", key, "replaced", prev.PrimitiveGUID, "primitive", ref.GUID.String())
		}
		out[key] = Entry{
			Index: IndexInfo{
				BufferViewID: prim.IndexBufferViewID,
				Count:        prim.IndexCount,
				Size:         prim.IndexSize,
			},
			PrimitiveGUID: ref.GUID.String(),
			Streams:       streams,
			VertexCount:   vs.VertexCount,
		}
	}
	return out, nil
}

type viewGroup struct {
	id    int64
	attrs []Attribute
}

// groupByView groups attributes by buffer view in first-seen order.
// Attributes without a view are skipped.
func groupByView(attrs Attributes) ([]viewGroup, error) {
	var groups []viewGroup
	pos := make(map[int64]int)
	for _, a := range attrs {
		id, ok, err := a.BufferViewID()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		i, seen := pos[id]
		if !seen {
			i = len(groups)
			pos[id] = i
			groups = append(groups, viewGroup{id: id})
		}
		groups[i].attrs = append(groups[i].attrs, a)
	}
	return groups, nil
}

func buildStreams(attrs Attributes, views []BufferView) ([]StreamEntry, error) {
	groups, err := groupByView(attrs)
	if err != nil {
		return nil, err
	}
	streams := make([]StreamEntry, 0, len(groups))
	for _, g := range groups {
		if g.id < 0 || g.id >= int64(len(views)) {
			return nil, fmt.Errorf("%w: bufferViewId %d missing from dmf bufferViews (%d views)",
				ErrUnresolvedReference, g.id, len(views))
		}
		view := views[g.id]
		stride, err := g.attrs[0].Stride()
		if err != nil {
			return nil, err
		}
		streams = append(streams, StreamEntry{
			Attributes:   g.attrs,
			BufferViewID: g.id,
			Length:       view.Size,
			Offset:       view.Offset,
			Stride:       stride,
		})
	}
	return streams, nil
}
