package core

import (
	"encoding/binary"
	"fmt"
	"iter"

	"github.com/google/uuid"
)

const (
	// BlockPrefixSize covers the kind id and the size field. A block's size
	// counts everything after the prefix.
	BlockPrefixSize = 12
	// BlockHeaderSize is the smallest readable block: prefix plus GUID.
	BlockHeaderSize = BlockPrefixSize + GUIDSize
)

// Block is one record of a core container. Payload aliases the input buffer.
type Block struct {
	Offset  int
	Kind    Kind
	Size    int32
	GUID    uuid.UUID
	Payload []byte
}

// End returns the offset of the byte after this block.
func (b Block) End() int {
	return b.Offset + BlockPrefixSize + int(b.Size)
}

// Blocks returns a lazy sequence over the blocks in data. Iteration stops at
// the first malformed block after yielding the error. Each range over the
// returned sequence starts again from the beginning of data.
func Blocks(data []byte) iter.Seq2[Block, error] {
	return func(yield func(Block, error) bool) {
		off := 0
		for off+BlockHeaderSize <= len(data) {
			b, err := readBlock(data, off)
			if err != nil {
				yield(Block{}, err)
				return
			}
			if !yield(b, nil) {
				return
			}
			off = b.End()
		}
	}
}

// ReadBlocks reads every block in data. On error no blocks are returned.
func ReadBlocks(data []byte) ([]Block, error) {
	var blocks []Block
	for b, err := range Blocks(data) {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func readBlock(data []byte, off int) (Block, error) {
	kind := Kind(binary.LittleEndian.Uint64(data[off:]))
	size := int32(binary.LittleEndian.Uint32(data[off+8:]))
	if size < GUIDSize {
		return Block{}, fmt.Errorf("%w: block at 0x%x (%s) declares size %d, below the %d-byte GUID",
			ErrMalformedContainer, off, kind, size, GUIDSize)
	}
	start := off + BlockHeaderSize
	end := off + BlockPrefixSize + int(size)
	if end > len(data) {
		return Block{}, fmt.Errorf("%w: block at 0x%x (%s) payload ends at 0x%x past buffer end 0x%x",
			ErrMalformedContainer, off, kind, end, len(data))
	}
	return Block{
		Offset:  off,
		Kind:    kind,
		Size:    size,
		GUID:    GUIDFromBytes(data[off+BlockPrefixSize : start]),
		Payload: data[start:end:end],
	}, nil
}
