// Package chunktable loads the chunk-table sidecar that describes, per vertex
// stream set, which byte range of each shared stream belongs to which
// primitive.
package chunktable

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// SidecarSuffix replaces the extension of the core file to name its sidecar.
const SidecarSuffix = ".chunk_tables.json"

var (
	ErrMissingSidecar = errors.New("chunk table sidecar not found")
	ErrInvalidSidecar = errors.New("invalid chunk table sidecar")
)

// Chunk is the part of a shared stream owned by one primitive.
type Chunk struct {
	PrimitiveGUID uuid.UUID
	Offset        int
	Length        int
	VertexCount   int
}

type StreamLayout struct {
	Role   string
	Stride int
	Chunks []Chunk
}

// ChunkFor returns the first chunk owned by primitive.
func (s StreamLayout) ChunkFor(primitive uuid.UUID) (Chunk, bool) {
	for _, c := range s.Chunks {
		if c.PrimitiveGUID == primitive {
			return c, true
		}
	}
	return Chunk{}, false
}

type VertexSetLayout struct {
	VertexCount int
	Streams     map[string]StreamLayout
}

// SidecarPath returns the chunk table path for a core file.
func SidecarPath(corePath string) string {
	return strings.TrimSuffix(corePath, filepath.Ext(corePath)) + SidecarSuffix
}

// Store caches parsed sidecars per core path. Entries are never invalidated:
// once a path has been loaded, later changes to its sidecar are not seen.
// A Store is not safe for concurrent use.
type Store struct {
	cache map[string]map[uuid.UUID]VertexSetLayout
}

func NewStore() *Store {
	return &Store{cache: make(map[string]map[uuid.UUID]VertexSetLayout)}
}

// Load returns the vertex set layouts described by the sidecar of corePath.
// The returned map is shared with the cache and must not be modified.
func (s *Store) Load(corePath string) (map[uuid.UUID]VertexSetLayout, error) {
	key := cacheKey(corePath)
	if layouts, ok := s.cache[key]; ok {
		return layouts, nil
	}

	sidecar := SidecarPath(corePath)
	data, err := os.ReadFile(sidecar)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSidecar, sidecar)
		}
		return nil, err
	}
	layouts, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sidecar, err)
	}
	s.cache[key] = layouts
	return layouts, nil
}

// Cached reports whether corePath has already been loaded.
func (s *Store) Cached(corePath string) bool {
	_, ok := s.cache[cacheKey(corePath)]
	return ok
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

type sidecarJSON struct {
	VertexSets map[string]vertexSetJSON `json:"vertexSets"`
}

type vertexSetJSON struct {
	VertexCount int                   `json:"vertexCount"`
	Streams     map[string]streamJSON `json:"streams"`
}

type streamJSON struct {
	Stride int         `json:"stride"`
	Chunks []chunkJSON `json:"chunks"`
}

type chunkJSON struct {
	PrimitiveGUID string `json:"primitiveGuid"`
	Offset        int    `json:"offset"`
	Length        int    `json:"length"`
	VertexCount   *int   `json:"vertexCount"`
}

// Decode parses sidecar JSON. A chunk without its own vertex count takes the
// count of its vertex set.
func Decode(data []byte) (map[uuid.UUID]VertexSetLayout, error) {
	var doc sidecarJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSidecar, err)
	}

	out := make(map[uuid.UUID]VertexSetLayout, len(doc.VertexSets))
	for key, vs := range doc.VertexSets {
		id, err := uuid.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("%w: vertex set key %q: %v", ErrInvalidSidecar, key, err)
		}
		streams := make(map[string]StreamLayout, len(vs.Streams))
		for role, st := range vs.Streams {
			chunks := make([]Chunk, 0, len(st.Chunks))
			for i, c := range st.Chunks {
				prim, err := uuid.Parse(c.PrimitiveGUID)
				if err != nil {
					return nil, fmt.Errorf("%w: %s/%s chunk %d primitive %q: %v",
						ErrInvalidSidecar, key, role, i, c.PrimitiveGUID, err)
				}
				count := vs.VertexCount
				if c.VertexCount != nil {
					count = *c.VertexCount
				}
				chunks = append(chunks, Chunk{
					PrimitiveGUID: prim,
					Offset:        c.Offset,
					Length:        c.Length,
					VertexCount:   count,
				})
			}
			streams[role] = StreamLayout{Role: role, Stride: st.Stride, Chunks: chunks}
		}
		out[id] = VertexSetLayout{VertexCount: vs.VertexCount, Streams: streams}
	}
	return out, nil
}
