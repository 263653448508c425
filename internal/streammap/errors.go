package streammap

import "errors"

var (
	// ErrUnresolvedReference means the core file and the dmf document do not
	// describe the same mesh: a primitive points at a vertex set or index
	// stream that was not parsed, or at a buffer view that does not exist.
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrNoPrimitives        = errors.New("no primitives found in either the core or dmf input")
	ErrInvalidDocument     = errors.New("invalid dmf document")
)
