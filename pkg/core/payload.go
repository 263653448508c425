package core

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// payloadReader is a forward-only cursor over a block payload. The first
// failed read records an error and every later read returns zero values.
type payloadReader struct {
	kind Kind
	data []byte
	off  int
	err  error
}

func newPayloadReader(b Block) *payloadReader {
	return &payloadReader{kind: b.Kind, data: b.Payload}
}

func (r *payloadReader) take(n int, field string) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = fmt.Errorf("%w: %s: %s needs %d bytes at payload offset %d, %d remain",
			ErrMalformedContainer, r.kind, field, n, r.off, len(r.data)-r.off)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *payloadReader) skip(n int, field string) {
	r.take(n, field)
}

func (r *payloadReader) u8(field string) uint8 {
	b := r.take(1, field)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *payloadReader) u32(field string) uint32 {
	b := r.take(4, field)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *payloadReader) words(n int, field string) []uint32 {
	b := r.take(4*n, field)
	if b == nil {
		return nil
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out
}

func (r *payloadReader) guid(field string) uuid.UUID {
	b := r.take(GUIDSize, field)
	if b == nil {
		return uuid.Nil
	}
	return GUIDFromBytes(b)
}

// rest copies whatever remains up to the end of the block.
func (r *payloadReader) rest() []byte {
	if r.err != nil || r.off >= len(r.data) {
		return []byte{}
	}
	out := make([]byte, len(r.data)-r.off)
	copy(out, r.data[r.off:])
	r.off = len(r.data)
	return out
}

func (r *payloadReader) remaining() int {
	return len(r.data) - r.off
}
