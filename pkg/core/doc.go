// Package core reads Decima .core containers.
//
// A container is a flat run of blocks, each laid out little-endian as
//
//	[8 kind id][4 signed size][16 GUID][size-16 payload]
//
// and repeated until fewer than 28 bytes remain. Only the blocks that carry
// mesh stream topology are decoded; every other block is kept as raw bytes
// under its kind id. Unknown integers inside decoded blocks are preserved,
// never interpreted.
//
// Vertex stream sets are decoded against the block end boundary. Earlier
// readings of the layout assumed a fixed sixteen word prefix, or recovered
// stream GUIDs from the last words of the payload; neither matches the shared
// stream layout and neither is implemented here.
package core
