package streammap

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/samcharles93/corestream/internal/logger"
	"github.com/samcharles93/corestream/pkg/core"
)

type recordingLogger struct {
	warnings *[]string
}

func newRecordingLogger() (recordingLogger, *[]string) {
	var w []string
	return recordingLogger{warnings: &w}, &w
}

func (l recordingLogger) Debug(string, ...any) {}
func (l recordingLogger) Info(string, ...any)  {}
func (l recordingLogger) Error(string, ...any) {}

func (l recordingLogger) Warn(msg string, args ...any) {
	*l.warnings = append(*l.warnings, fmt.Sprint(append([]any{msg}, args...)...))
}

func (l recordingLogger) With(...any) logger.Logger      { return l }
func (l recordingLogger) WithGroup(string) logger.Logger { return l }

const twoPrimitiveDMF = `{
  "bufferViews": [
    {"offset": 0, "size": 2400, "bufferId": 0},
    {"offset": 2400, "size": 600},
    {"offset": 3000, "size": 800}
  ],
  "instances": [{"mesh": {"primitives": [
    {
      "vertexAttributes": {
        "position": {"bufferViewId": 0, "stride": 24, "offset": 0, "elementType": "float", "elementCount": 3},
        "normal": {"bufferViewId": 0, "stride": 24, "offset": 12},
        "uv0": {"bufferViewId": 2, "stride": 8},
        "color": {"stride": 4}
      },
      "indexCount": 300,
      "indexBufferViewId": 1,
      "indexSize": 2
    },
    {
      "vertexAttributes": {
        "uv0": {"bufferViewId": 2, "stride": 8},
        "position": {"bufferViewId": 1, "stride": 12}
      },
      "indexCount": 30
    }
  ]}}]
}`

type fixture struct {
	input      Input
	vertexSets []uuid.UUID
	primitives []core.PrimitiveReference
}

func newFixture(t *testing.T, primCount int, dmf string) fixture {
	t.Helper()
	doc, err := DecodeDocument([]byte(dmf))
	if err != nil {
		t.Fatalf("decode dmf: %v", err)
	}
	f := fixture{input: Input{
		VertexSets: make(map[uuid.UUID]core.VertexStreamSet),
		Document:   doc,
	}}
	for i := 0; i < primCount; i++ {
		vsID := uuid.New()
		f.vertexSets = append(f.vertexSets, vsID)
		f.input.VertexSets[vsID] = core.VertexStreamSet{VertexCount: uint32(100 * (i + 1)), StreamCount: 1}
		f.primitives = append(f.primitives, core.PrimitiveReference{GUID: uuid.New(), VertexRef: vsID, IndexRef: uuid.New()})
	}
	f.input.Primitives = f.primitives
	return f
}

func semantics(attrs []Attribute) string {
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Semantic
	}
	return strings.Join(names, ",")
}

func TestBuildGroupsAttributesByView(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 2, twoPrimitiveDMF)
	log, warnings := newRecordingLogger()
	m, err := Build(f.input, log)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(*warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", *warnings)
	}
	if len(m) != 2 {
		t.Fatalf("entries: got %d want 2", len(m))
	}

	first, ok := m[f.vertexSets[0].String()]
	if !ok {
		t.Fatalf("entry for %s missing", f.vertexSets[0])
	}
	if first.VertexCount != 100 {
		t.Fatalf("vertex count: got %d", first.VertexCount)
	}
	if first.PrimitiveGUID != f.primitives[0].GUID.String() {
		t.Fatalf("primitive guid: got %s", first.PrimitiveGUID)
	}
	if len(first.Streams) != 2 {
		t.Fatalf("streams: got %d want 2 (%+v)", len(first.Streams), first.Streams)
	}
	s0, s1 := first.Streams[0], first.Streams[1]
	if s0.BufferViewID != 0 || s0.Offset != 0 || s0.Length != 2400 || s0.Stride == nil || *s0.Stride != 24 {
		t.Fatalf("stream 0: %+v", s0)
	}
	if got := semantics(s0.Attributes); got != "position,normal" {
		t.Fatalf("stream 0 attributes: %s", got)
	}
	if s1.BufferViewID != 2 || s1.Offset != 3000 || s1.Length != 800 || *s1.Stride != 8 {
		t.Fatalf("stream 1: %+v", s1)
	}
	if first.Index.Count == nil || *first.Index.Count != 300 || *first.Index.BufferViewID != 1 || *first.Index.Size != 2 {
		t.Fatalf("index: %+v", first.Index)
	}

	second := m[f.vertexSets[1].String()]
	if len(second.Streams) != 2 || second.Streams[0].BufferViewID != 2 || second.Streams[1].BufferViewID != 1 {
		t.Fatalf("second entry should keep first-seen view order: %+v", second.Streams)
	}
	if second.Index.BufferViewID != nil || second.Index.Size != nil {
		t.Fatalf("absent index fields should stay nil: %+v", second.Index)
	}
}

func TestBuildTruncatesOnCountMismatch(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3, twoPrimitiveDMF)
	log, warnings := newRecordingLogger()
	m, err := Build(f.input, log)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(m) != 2 {
		t.Fatalf("entries: got %d want 2", len(m))
	}
	if len(*warnings) != 1 {
		t.Fatalf("warnings: got %d want 1 (%v)", len(*warnings), *warnings)
	}
	if _, ok := m[f.vertexSets[2].String()]; ok {
		t.Fatalf("third primitive should have been truncated")
	}
}

func TestBuildTruncatesShorterCore(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1, twoPrimitiveDMF)
	log, warnings := newRecordingLogger()
	m, err := Build(f.input, log)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(m) != 1 || len(*warnings) != 1 {
		t.Fatalf("got %d entries and %d warnings", len(m), len(*warnings))
	}
}

func TestBuildUnresolvedVertexSet(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 2, twoPrimitiveDMF)
	delete(f.input.VertexSets, f.vertexSets[1])
	m, err := Build(f.input, logger.Discard())
	if !errors.Is(err, ErrUnresolvedReference) {
		t.Fatalf("expected ErrUnresolvedReference, got %v", err)
	}
	if m != nil {
		t.Fatalf("expected no partial map")
	}
}

func TestBuildUnresolvedIndexStream(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 2, twoPrimitiveDMF)
	f.input.IndexStreams = map[uuid.UUID]core.IndexStream{
		f.primitives[0].IndexRef: {IndexCount: 300},
	}
	if _, err := Build(f.input, logger.Discard()); !errors.Is(err, ErrUnresolvedReference) {
		t.Fatalf("expected ErrUnresolvedReference, got %v", err)
	}

	f.input.IndexStreams[f.primitives[1].IndexRef] = core.IndexStream{IndexCount: 30}
	if _, err := Build(f.input, logger.Discard()); err != nil {
		t.Fatalf("build with resolved index streams: %v", err)
	}
}

func TestBuildBufferViewOutOfRange(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"3", "-1", "99"} {
		dmf := strings.Replace(twoPrimitiveDMF, `"position": {"bufferViewId": 1`, `"position": {"bufferViewId": `+id, 1)
		f := newFixture(t, 2, dmf)
		m, err := Build(f.input, logger.Discard())
		if !errors.Is(err, ErrUnresolvedReference) {
			t.Fatalf("view %s: expected ErrUnresolvedReference, got %v", id, err)
		}
		if m != nil {
			t.Fatalf("view %s: expected no partial map", id)
		}
	}
}

func TestBuildNoPrimitives(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 2, `{"bufferViews": [], "instances": []}`)
	if _, err := Build(f.input, logger.Discard()); !errors.Is(err, ErrNoPrimitives) {
		t.Fatalf("expected ErrNoPrimitives, got %v", err)
	}
}

func TestBuildSharedVertexSetKeepsLast(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 2, twoPrimitiveDMF)
	f.input.Primitives[1].VertexRef = f.vertexSets[0]
	m, err := Build(f.input, logger.Discard())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(m) != 1 {
		t.Fatalf("entries: got %d want 1", len(m))
	}
	if got := m[f.vertexSets[0].String()].PrimitiveGUID; got != f.primitives[1].GUID.String() {
		t.Fatalf("expected the later primitive to win, got %s", got)
	}
}

func TestBuildInvalidStride(t *testing.T) {
	t.Parallel()

	dmf := strings.Replace(twoPrimitiveDMF, `"stride": 24, "offset": 0`, `"stride": "wide", "offset": 0`, 1)
	f := newFixture(t, 2, dmf)
	if _, err := Build(f.input, logger.Discard()); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}
