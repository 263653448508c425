// Package report summarizes the blocks of a core container for inspection.
package report

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/samcharles93/corestream/pkg/core"
)

type Summary struct {
	BlockCount int                               `json:"block_count"`
	Blocks     []BlockSummary                    `json:"blocks"`
	Primitives []PrimitiveDetails                `json:"primitives"`
	VertexSets map[string]VertexStreamSetDetails `json:"vertex_sets"`
	IndexSets  map[string]IndexStreamDetails     `json:"index_sets"`
}

type BlockSummary struct {
	Offset  int    `json:"offset"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Size    int32  `json:"size"`
	GUID    string `json:"guid"`
	Details any    `json:"details,omitempty"`
}

type PrimitiveDetails struct {
	Primitive string `json:"primitive"`
	VertexRef string `json:"vertex_ref"`
	IndexRef  string `json:"index_ref"`
}

type StreamDetails struct {
	Header []uint32 `json:"header"`
	GUID   string   `json:"guid"`
	Tail   []uint32 `json:"tail"`
}

type VertexStreamSetDetails struct {
	VertexCount uint32          `json:"vertex_count"`
	StreamCount uint32          `json:"stream_count"`
	HeaderTail  [2]uint32       `json:"header_tail"`
	Streams     []StreamDetails `json:"streams"`
	Trailing    string          `json:"trailing_bytes,omitempty"`
}

type IndexStreamDetails struct {
	IndexCount uint32    `json:"index_count"`
	Unknown    [3]uint32 `json:"unknown"`
	GUID       string    `json:"guid"`
}

// Summarize decodes every known block of data. Any malformed block fails the
// whole summary.
func Summarize(data []byte) (*Summary, error) {
	blocks, err := core.ReadBlocks(data)
	if err != nil {
		return nil, err
	}
	s := &Summary{
		BlockCount: len(blocks),
		Blocks:     make([]BlockSummary, 0, len(blocks)),
		Primitives: []PrimitiveDetails{},
		VertexSets: make(map[string]VertexStreamSetDetails),
		IndexSets:  make(map[string]IndexStreamDetails),
	}
	for _, b := range blocks {
		entry := BlockSummary{
			Offset: b.Offset,
			ID:     b.Kind.Hex(),
			Name:   b.Kind.String(),
			Size:   b.Size,
			GUID:   b.GUID.String(),
		}
		v, err := core.Decode(b)
		switch {
		case errors.Is(err, core.ErrUnknownKind):
		case err != nil:
			return nil, err
		}
		switch rec := v.(type) {
		case core.PrimitiveReference:
			d := primitiveDetails(rec)
			s.Primitives = append(s.Primitives, d)
			entry.Details = d
		case core.VertexStreamSet:
			d := vertexSetDetails(rec)
			s.VertexSets[entry.GUID] = d
			entry.Details = d
		case core.IndexStream:
			d := IndexStreamDetails{IndexCount: rec.IndexCount, Unknown: rec.Unknown, GUID: rec.GUID.String()}
			s.IndexSets[entry.GUID] = d
			entry.Details = d
		}
		s.Blocks = append(s.Blocks, entry)
	}
	return s, nil
}

func primitiveDetails(p core.PrimitiveReference) PrimitiveDetails {
	return PrimitiveDetails{
		Primitive: p.GUID.String(),
		VertexRef: p.VertexRef.String(),
		IndexRef:  p.IndexRef.String(),
	}
}

func vertexSetDetails(vs core.VertexStreamSet) VertexStreamSetDetails {
	streams := make([]StreamDetails, len(vs.Streams))
	for i, sd := range vs.Streams {
		streams[i] = StreamDetails{Header: sd.Header, GUID: sd.ChunkGUID.String(), Tail: sd.Tail}
	}
	return VertexStreamSetDetails{
		VertexCount: vs.VertexCount,
		StreamCount: vs.StreamCount,
		HeaderTail:  vs.HeaderTail,
		Streams:     streams,
		Trailing:    hex.EncodeToString(vs.Trailing),
	}
}

// WriteText prints one line per block, followed by its details, and a total.
// limit caps the number of blocks printed; zero prints all.
func WriteText(w io.Writer, s *Summary, limit int) error {
	blocks := s.Blocks
	if limit > 0 && limit < len(blocks) {
		blocks = blocks[:limit]
	}
	for _, b := range blocks {
		if _, err := fmt.Fprintf(w, "%08x %28s %6d %s\n", b.Offset, b.Name, b.Size, b.GUID); err != nil {
			return err
		}
		if err := writeDetails(w, b.Details); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total blocks: %d\n", s.BlockCount)
	return err
}

func writeDetails(w io.Writer, details any) error {
	var err error
	line := func(key string, value any) {
		if err == nil {
			_, err = fmt.Fprintf(w, "    %s: %v\n", key, value)
		}
	}
	switch d := details.(type) {
	case PrimitiveDetails:
		line("primitive", d.Primitive)
		line("vertex_ref", d.VertexRef)
		line("index_ref", d.IndexRef)
	case VertexStreamSetDetails:
		line("vertex_count", d.VertexCount)
		line("stream_count", d.StreamCount)
		line("header_tail", d.HeaderTail)
		for i, st := range d.Streams {
			line(fmt.Sprintf("stream[%d]", i), fmt.Sprintf("header=%v guid=%s tail=%v", st.Header, st.GUID, st.Tail))
		}
		if d.Trailing != "" {
			line("trailing_bytes", d.Trailing)
		}
	case IndexStreamDetails:
		line("index_count", d.IndexCount)
		line("unknown", d.Unknown)
		line("guid", d.GUID)
	}
	return err
}

// WriteJSON writes s as indented JSON.
func WriteJSON(w io.Writer, s *Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
