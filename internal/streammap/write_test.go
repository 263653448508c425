package streammap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/samcharles93/corestream/internal/logger"
	"github.com/samcharles93/corestream/pkg/core"
)

func TestEncodeSortedAndStable(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 2, twoPrimitiveDMF)
	m, err := Build(f.input, logger.Discard())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a, err := Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, err := Encode(m)
	if err != nil {
		t.Fatalf("encode again: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("encoding is not deterministic")
	}

	out := string(a)
	order := []string{`"index"`, `"primitiveGuid"`, `"streams"`, `"vertexCount"`}
	last := -1
	for _, key := range order {
		i := strings.Index(out, key)
		if i < 0 || i < last {
			t.Fatalf("key %s out of order in:\n%s", key, out)
		}
		last = i
	}
	// Attribute fields are carried through with the semantic added.
	for _, want := range []string{`"elementType"`, `"normal"`, `"semantic"`, "\n  \""} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, `"bufferViewId": 0`) > strings.Index(out, `"elementCount"`) {
		t.Fatalf("attribute keys should be sorted:\n%s", out)
	}
}

func TestDocumentKeepsAttributeOrder(t *testing.T) {
	t.Parallel()

	doc, err := DecodeDocument([]byte(`{"instances": [{"mesh": {"primitives": [
		{"vertexAttributes": {"z": {"bufferViewId": 0}, "a": {"bufferViewId": 1}, "m": null}}
	]}}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	prims := doc.Primitives()
	if len(prims) != 1 {
		t.Fatalf("primitives: %d", len(prims))
	}
	if got := semantics(prims[0].VertexAttributes); got != "z,a,m" {
		t.Fatalf("attribute order: %s", got)
	}
	if _, ok, _ := prims[0].VertexAttributes[2].BufferViewID(); ok {
		t.Fatalf("null attribute should have no view")
	}
}

func TestDecodeDocumentInvalid(t *testing.T) {
	t.Parallel()

	for _, body := range []string{
		`{"instances": `,
		`{"instances": [{"mesh": {"primitives": [{"vertexAttributes": [1, 2]}]}}]}`,
	} {
		if _, err := DecodeDocument([]byte(body)); !errors.Is(err, ErrInvalidDocument) {
			t.Fatalf("expected ErrInvalidDocument for %s, got %v", body, err)
		}
	}
}

type testAssets struct {
	dir      string
	corePath string
	dmfPath  string
	sets     []uuid.UUID
}

func writeAssets(t *testing.T, primCount int, dmf string) testAssets {
	t.Helper()
	a := testAssets{dir: t.TempDir()}
	a.corePath = filepath.Join(a.dir, "mesh.core")
	a.dmfPath = filepath.Join(a.dir, "mesh.dmf")

	var blob []byte
	for i := 0; i < primCount; i++ {
		vsID := uuid.New()
		a.sets = append(a.sets, vsID)
		vs := core.VertexStreamSet{
			VertexCount: uint32(10 + i),
			StreamCount: 1,
			Streams:     []core.StreamDescriptor{{Header: make([]uint32, 6), ChunkGUID: uuid.New(), Tail: make([]uint32, 2)}},
		}
		blob = core.AppendBlock(blob, core.KindVertexStreamSet, vsID, core.EncodeVertexStreamSet(vs))
	}
	for i := 0; i < primCount; i++ {
		p := core.PrimitiveReference{GUID: uuid.New(), VertexRef: a.sets[i], IndexRef: uuid.New()}
		blob = core.AppendBlock(blob, core.KindRenderingPrimitive, p.GUID, core.EncodePrimitiveReference(p))
	}
	if err := os.WriteFile(a.corePath, blob, 0o644); err != nil {
		t.Fatalf("write core: %v", err)
	}
	if err := os.WriteFile(a.dmfPath, []byte(dmf), 0o644); err != nil {
		t.Fatalf("write dmf: %v", err)
	}
	return a
}

func TestGenerateWritesDefaultPath(t *testing.T) {
	t.Parallel()

	a := writeAssets(t, 2, twoPrimitiveDMF)
	m, out, err := Generate(a.corePath, a.dmfPath, "", logger.Discard())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != a.corePath+".streams.json" {
		t.Fatalf("output path: %s", out)
	}
	if len(m) != 2 {
		t.Fatalf("entries: %d", len(m))
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var decoded map[string]struct {
		VertexCount int `json:"vertexCount"`
		Streams     []struct {
			Offset int `json:"offset"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if decoded[a.sets[1].String()].VertexCount != 11 {
		t.Fatalf("decoded entry: %+v", decoded[a.sets[1].String()])
	}
}

func TestGenerateWritesNothingOnFailure(t *testing.T) {
	t.Parallel()

	dmf := strings.Replace(twoPrimitiveDMF, `"position": {"bufferViewId": 1`, `"position": {"bufferViewId": 7`, 1)
	a := writeAssets(t, 2, dmf)
	out := filepath.Join(a.dir, "out.streams.json")

	_, _, err := Generate(a.corePath, a.dmfPath, out, logger.Discard())
	if !errors.Is(err, ErrUnresolvedReference) {
		t.Fatalf("expected ErrUnresolvedReference, got %v", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no output file, stat returned %v", err)
	}
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected only the inputs in %s, found %d entries", a.dir, len(entries))
	}
}

func TestGenerateMalformedCore(t *testing.T) {
	t.Parallel()

	a := writeAssets(t, 2, twoPrimitiveDMF)
	data, err := os.ReadFile(a.corePath)
	if err != nil {
		t.Fatalf("read core: %v", err)
	}
	if err := os.WriteFile(a.corePath, data[:len(data)-5], 0o644); err != nil {
		t.Fatalf("truncate core: %v", err)
	}
	if _, _, err := Generate(a.corePath, a.dmfPath, "", logger.Discard()); !errors.Is(err, core.ErrMalformedContainer) {
		t.Fatalf("expected ErrMalformedContainer, got %v", err)
	}
	if _, err := os.Stat(DefaultOutputPath(a.corePath)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no output file, stat returned %v", err)
	}
}

func TestWriteFileReplaces(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "x.streams.json")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := WriteFile(path, Map{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(string(data)) != "{}" {
		t.Fatalf("unexpected content %q", data)
	}
}
