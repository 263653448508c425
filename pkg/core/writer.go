package core

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// AppendBlock appends one encoded block to dst.
func AppendBlock(dst []byte, kind Kind, guid uuid.UUID, payload []byte) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, uint64(kind))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(GUIDSize+len(payload)))
	dst = AppendGUID(dst, guid)
	return append(dst, payload...)
}

// EncodeVertexStreamSet is the inverse of ParseVertexStreamSet. Header and
// Tail words are written as stored, so the caller is responsible for giving
// the first stream six header words and a two word tail.
func EncodeVertexStreamSet(vs VertexStreamSet) []byte {
	out := make([]byte, 0, 16+len(vs.Streams)*40+len(vs.Trailing))
	out = binary.LittleEndian.AppendUint32(out, vs.VertexCount)
	out = binary.LittleEndian.AppendUint32(out, vs.StreamCount)
	out = binary.LittleEndian.AppendUint32(out, vs.HeaderTail[0])
	out = binary.LittleEndian.AppendUint32(out, vs.HeaderTail[1])
	for _, sd := range vs.Streams {
		out = appendWords(out, sd.Header)
		out = AppendGUID(out, sd.ChunkGUID)
		out = appendWords(out, sd.Tail)
	}
	return append(out, vs.Trailing...)
}

func EncodeIndexStream(is IndexStream) []byte {
	out := make([]byte, 0, 32)
	out = binary.LittleEndian.AppendUint32(out, is.IndexCount)
	out = appendWords(out, is.Unknown[:])
	return AppendGUID(out, is.GUID)
}

// EncodePrimitiveReference writes the payload with zero flags.
func EncodePrimitiveReference(p PrimitiveReference) []byte {
	out := make([]byte, 4, 38)
	out = append(out, p.VertexTag)
	out = AppendGUID(out, p.VertexRef)
	out = append(out, p.IndexTag)
	return AppendGUID(out, p.IndexRef)
}

func appendWords(dst []byte, words []uint32) []byte {
	for _, w := range words {
		dst = binary.LittleEndian.AppendUint32(dst, w)
	}
	return dst
}
