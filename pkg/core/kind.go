package core

import "fmt"

// Kind identifies the type of a block.
type Kind uint64

const (
	KindDataBuffer              Kind = 0x6319028A13556F1E
	KindRegularSkinnedMesh      Kind = 0x36B88667B0A33134
	KindSkinnedMeshBoneBindings Kind = 0xE2A812418ABC2172
	KindSkinnedMeshBoneBounds   Kind = 0xBCE84D96052C041E
	KindSkinnedMeshSkinInfo     Kind = 0x118378C2F191097A
	KindRenderEffect            Kind = 0xFE2843D4AAD255E7
	KindStreamChunkTable        Kind = 0x0B0D03C7E087F38E
	KindCullInfo                Kind = 0x8EB29E71F97E460F
	KindRenderingPrimitive      Kind = 0xEE49D93DA4C1F4B8
	KindVertexStreamSet         Kind = 0x3AC29A123FAABAB4
	KindIndexStream             Kind = 0x5FE633B37CEDBF84
)

var kindNames = map[Kind]string{
	KindDataBuffer:              "DataBufferResource?",
	KindRegularSkinnedMesh:      "RegularSkinnedMeshResource",
	KindSkinnedMeshBoneBindings: "SkinnedMeshBoneBindings",
	KindSkinnedMeshBoneBounds:   "SkinnedMeshBoneBoundingBoxes",
	KindSkinnedMeshSkinInfo:     "RegularSkinnedMeshResourceSkinInfo",
	KindRenderEffect:            "RenderEffectResource",
	KindStreamChunkTable:        "StreamChunkTable",
	KindCullInfo:                "CullInfo/LOD meta",
	KindRenderingPrimitive:      "RenderingPrimitiveResource",
	KindVertexStreamSet:         "VertexStreamSet",
	KindIndexStream:             "IndexStream",
}

// Known reports whether k is in the name table.
func (k Kind) Known() bool {
	_, ok := kindNames[k]
	return ok
}

// Hex returns the id as a fixed-width hex literal.
func (k Kind) Hex() string {
	return fmt.Sprintf("0x%016X", uint64(k))
}

// String returns the role name, or the hex id for unknown kinds.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return k.Hex()
}
