package api

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type CoreFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type CoreList struct {
	Object string     `json:"object"`
	Data   []CoreFile `json:"data"`
}

type ChunkInfo struct {
	PrimitiveGUID string `json:"primitive_guid"`
	Offset        int    `json:"offset"`
	Length        int    `json:"length"`
	VertexCount   int    `json:"vertex_count"`
}

type StreamInfo struct {
	Stride int         `json:"stride"`
	Chunks []ChunkInfo `json:"chunks"`
}

type VertexSetInfo struct {
	VertexCount int                   `json:"vertex_count"`
	Streams     map[string]StreamInfo `json:"streams"`
}

// ChunkTables is the sidecar content keyed by vertex set GUID.
type ChunkTables struct {
	Object     string                   `json:"object"`
	VertexSets map[string]VertexSetInfo `json:"vertex_sets"`
}

// ChunkMatch is one chunk owned by the primitive named in the query.
type ChunkMatch struct {
	VertexSet string    `json:"vertex_set"`
	Role      string    `json:"role"`
	Stride    int       `json:"stride"`
	Chunk     ChunkInfo `json:"chunk"`
}

type ChunkMatches struct {
	Object    string       `json:"object"`
	Primitive string       `json:"primitive"`
	Data      []ChunkMatch `json:"data"`
}
