package streammap

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Document is the subset of a Decima Workshop .dmf export that describes
// buffer views and the per-primitive vertex attribute bindings.
type Document struct {
	BufferViews []BufferView `json:"bufferViews"`
	Instances   []Instance   `json:"instances"`
}

type BufferView struct {
	Offset int64 `json:"offset"`
	Size   int64 `json:"size"`
}

type Instance struct {
	Mesh struct {
		Primitives []Primitive `json:"primitives"`
	} `json:"mesh"`
}

// Primitive is one mesh primitive of the export. Index fields are passed
// through to the stream map untouched, so absent values stay null.
type Primitive struct {
	VertexAttributes  Attributes `json:"vertexAttributes"`
	IndexCount        *int64     `json:"indexCount"`
	IndexBufferViewID *int64     `json:"indexBufferViewId"`
	IndexSize         *int64     `json:"indexSize"`
}

// Primitives returns the primitives of the first instance, in export order.
func (d *Document) Primitives() []Primitive {
	if d == nil || len(d.Instances) == 0 {
		return nil
	}
	return d.Instances[0].Mesh.Primitives
}

// Attribute is one semantic of a primitive's vertexAttributes object. All of
// its fields are kept so they can be written back unchanged.
type Attribute struct {
	Semantic string
	Fields   map[string]json.RawMessage
}

// BufferViewID returns the attribute's bufferViewId. ok is false when the
// field is absent or null.
func (a Attribute) BufferViewID() (id int64, ok bool, err error) {
	return a.intField("bufferViewId")
}

// Stride returns the declared stride, or nil when absent.
func (a Attribute) Stride() (*int64, error) {
	v, ok, err := a.intField("stride")
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func (a Attribute) intField(name string) (int64, bool, error) {
	raw, ok := a.Fields[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return 0, false, nil
	}
	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false, fmt.Errorf("%w: attribute %s: %s: %v", ErrInvalidDocument, a.Semantic, name, err)
	}
	return v, true, nil
}

// MarshalJSON writes the declared fields plus the semantic name, with keys
// sorted.
func (a Attribute) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(a.Fields)+1)
	for k, v := range a.Fields {
		out[k] = v
	}
	sem, err := json.Marshal(a.Semantic)
	if err != nil {
		return nil, err
	}
	out["semantic"] = sem
	return json.Marshal(out)
}

// Attributes keeps vertexAttributes in document order, which decides the
// order of streams in the output.
type Attributes []Attribute

func (a *Attributes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*a = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: vertexAttributes must be an object", ErrInvalidDocument)
	}

	var out Attributes
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		semantic, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: vertexAttributes key %v", ErrInvalidDocument, tok)
		}
		var fields map[string]json.RawMessage
		if err := dec.Decode(&fields); err != nil {
			return fmt.Errorf("%w: attribute %s: %v", ErrInvalidDocument, semantic, err)
		}
		out = append(out, Attribute{Semantic: semantic, Fields: fields})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

// DecodeDocument parses a .dmf export.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
