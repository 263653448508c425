package core

import "errors"

var (
	ErrMalformedContainer = errors.New("malformed core container")
	ErrUnknownKind        = errors.New("no interpreter for block kind")
)
