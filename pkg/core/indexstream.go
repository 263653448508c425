package core

import (
	"fmt"

	"github.com/google/uuid"
)

// IndexStream is the decoded payload of a KindIndexStream block.
type IndexStream struct {
	IndexCount uint32
	Unknown    [3]uint32
	GUID       uuid.UUID
}

func ParseIndexStream(b Block) (IndexStream, error) {
	if b.Kind != KindIndexStream {
		return IndexStream{}, fmt.Errorf("parse index stream: block at 0x%x is %s", b.Offset, b.Kind)
	}
	r := newPayloadReader(b)
	is := IndexStream{IndexCount: r.u32("index count")}
	for i := range is.Unknown {
		is.Unknown[i] = r.u32("index stream field")
	}
	is.GUID = r.guid("index stream guid")
	if r.err != nil {
		return IndexStream{}, r.err
	}
	return is, nil
}
