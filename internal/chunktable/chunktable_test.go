package chunktable

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

const (
	vertexSetA = "6f1c7c1e-2b7d-4e61-9f55-0d7c2a5a9b01"
	primOne    = "11111111-2222-3333-4444-555555555555"
	primTwo    = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
)

const sidecarJSONText = `{
  "vertexSets": {
    "` + vertexSetA + `": {
      "vertexCount": 900,
      "streams": {
        "position": {
          "stride": 12,
          "chunks": [
            {"primitiveGuid": "` + primOne + `", "offset": 0, "length": 7200, "vertexCount": 600},
            {"primitiveGuid": "` + primTwo + `", "offset": 7200, "length": 3600}
          ]
        },
        "uv": {"stride": 4, "chunks": []}
      }
    }
  }
}`

func writeSidecar(t *testing.T, dir, body string) string {
	t.Helper()
	corePath := filepath.Join(dir, "mesh.core")
	if err := os.WriteFile(SidecarPath(corePath), []byte(body), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}
	return corePath
}

func TestSidecarPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"assets/mesh.core":      "assets/mesh.chunk_tables.json",
		"assets/mesh":           "assets/mesh.chunk_tables.json",
		"assets/body.lod0.core": "assets/body.lod0.chunk_tables.json",
	}
	for in, want := range cases {
		if got := SidecarPath(in); got != want {
			t.Errorf("SidecarPath(%q): got %q want %q", in, got, want)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	corePath := writeSidecar(t, t.TempDir(), sidecarJSONText)
	store := NewStore()
	layouts, err := store.Load(corePath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	vs, ok := layouts[uuid.MustParse(vertexSetA)]
	if !ok {
		t.Fatalf("vertex set %s missing: %v", vertexSetA, layouts)
	}
	if vs.VertexCount != 900 {
		t.Fatalf("vertex count: got %d", vs.VertexCount)
	}
	pos, ok := vs.Streams["position"]
	if !ok {
		t.Fatalf("position stream missing")
	}
	if pos.Role != "position" || pos.Stride != 12 || len(pos.Chunks) != 2 {
		t.Fatalf("position stream: %+v", pos)
	}
	if pos.Chunks[0].VertexCount != 600 {
		t.Fatalf("explicit chunk vertex count: got %d", pos.Chunks[0].VertexCount)
	}
	if pos.Chunks[1].VertexCount != 900 {
		t.Fatalf("defaulted chunk vertex count: got %d want 900", pos.Chunks[1].VertexCount)
	}
	if uv := vs.Streams["uv"]; len(uv.Chunks) != 0 || uv.Stride != 4 {
		t.Fatalf("uv stream: %+v", uv)
	}
}

func TestChunkFor(t *testing.T) {
	t.Parallel()

	dup := uuid.MustParse(primOne)
	layout := StreamLayout{
		Role:   "normal",
		Stride: 8,
		Chunks: []Chunk{
			{PrimitiveGUID: uuid.MustParse(primTwo), Offset: 0, Length: 10},
			{PrimitiveGUID: dup, Offset: 10, Length: 20},
			{PrimitiveGUID: dup, Offset: 30, Length: 40},
		},
	}
	c, ok := layout.ChunkFor(dup)
	if !ok {
		t.Fatalf("chunk for %s not found", dup)
	}
	if c.Offset != 10 {
		t.Fatalf("expected first match at offset 10, got %d", c.Offset)
	}
	if _, ok := layout.ChunkFor(uuid.New()); ok {
		t.Fatalf("unexpected chunk for unknown primitive")
	}
}

func TestLoadCachesWithoutRereading(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	corePath := writeSidecar(t, dir, sidecarJSONText)
	store := NewStore()

	first, err := store.Load(corePath)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if !store.Cached(corePath) {
		t.Fatalf("expected %s to be cached", corePath)
	}

	writeSidecar(t, dir, `{"vertexSets": {}}`)
	second, err := store.Load(corePath)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if reflect.ValueOf(first).Pointer() != reflect.ValueOf(second).Pointer() {
		t.Fatalf("expected the cached map to be returned")
	}
	if len(second) != 1 {
		t.Fatalf("expected stale cached content, got %d vertex sets", len(second))
	}

	// Caches belong to their store.
	fresh, err := NewStore().Load(corePath)
	if err != nil {
		t.Fatalf("fresh store load: %v", err)
	}
	if len(fresh) != 0 {
		t.Fatalf("fresh store should read the modified file, got %d vertex sets", len(fresh))
	}
}

func TestLoadMissingSidecar(t *testing.T) {
	t.Parallel()

	store := NewStore()
	corePath := filepath.Join(t.TempDir(), "nothing.core")
	_, err := store.Load(corePath)
	if !errors.Is(err, ErrMissingSidecar) {
		t.Fatalf("expected ErrMissingSidecar, got %v", err)
	}
	if store.Cached(corePath) {
		t.Fatalf("failed loads must not be cached")
	}
}

func TestLoadInvalidSidecar(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"syntax":        `{"vertexSets": `,
		"vertex set id": `{"vertexSets": {"not-a-guid": {"vertexCount": 1}}}`,
		"primitive id":  `{"vertexSets": {"` + vertexSetA + `": {"streams": {"p": {"chunks": [{"primitiveGuid": "zz"}]}}}}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			corePath := writeSidecar(t, t.TempDir(), body)
			if _, err := NewStore().Load(corePath); !errors.Is(err, ErrInvalidSidecar) {
				t.Fatalf("expected ErrInvalidSidecar, got %v", err)
			}
		})
	}
}
