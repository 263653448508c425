package core

import "github.com/google/uuid"

// GUIDSize is the on-disk width of a GUID.
const GUIDSize = 16

// GUIDFromBytes decodes a GUID stored in mixed-endian order: the first three
// fields are little-endian, the last eight bytes are taken as-is.
func GUIDFromBytes(b []byte) uuid.UUID {
	var u uuid.UUID
	_ = b[GUIDSize-1]
	u[0], u[1], u[2], u[3] = b[3], b[2], b[1], b[0]
	u[4], u[5] = b[5], b[4]
	u[6], u[7] = b[7], b[6]
	copy(u[8:], b[8:16])
	return u
}

// AppendGUID appends the on-disk encoding of u to dst.
func AppendGUID(dst []byte, u uuid.UUID) []byte {
	return append(dst,
		u[3], u[2], u[1], u[0],
		u[5], u[4],
		u[7], u[6],
		u[8], u[9], u[10], u[11], u[12], u[13], u[14], u[15],
	)
}
