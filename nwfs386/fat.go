package nwfs386

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// End-of-chain marker: the FAT pointer value that terminates a block
// chain.
const fatEndOfChain uint32 = 0xffffffff

const fatEntrySize = 8 // two little-endian uint32 words per entry

var (
	// ErrFATCorrupt is returned when a FAT entry cannot be read or its
	// block lies outside every known segment.
	ErrFATCorrupt = errors.New("nwfs386: FAT entry corrupt or out of range")
	// ErrChainCycle is returned when walking a block chain revisits a
	// block it has already visited.
	ErrChainCycle = errors.New("nwfs386: block chain contains a cycle")
	// ErrChainTooLong is returned when a block chain exceeds the sanity
	// limit, almost always meaning it is cyclic in a way the simple
	// visited-set check didn't catch fast enough to matter.
	ErrChainTooLong = errors.New("nwfs386: block chain exceeds maximum length")
)

// maxChainLength bounds how many blocks a single chain walk will
// follow before giving up; a real volume's largest file chain is far
// shorter than this.
const maxChainLength = 1 << 20

// FATEntry is the decoded (value, next) pair: every FAT slot is two
// little-endian u32 words, not a single 4-byte entry per block.
type FATEntry struct {
	Value uint32
	Next  uint32
}

// ReadFATEntry reads the FAT entry for block. The FAT is not addressed
// like a data block: it's a flat array of 8-byte (value, next) pairs
// living at the start of the segment's data area, one pair per block
// number, which is why block 0 (the FAT's own home) is never a valid
// data block.
func (v *Volume) ReadFATEntry(block uint32) (FATEntry, error) {
	offset, err := v.resolveFATOffset(block)
	if err != nil {
		return FATEntry{}, err
	}
	data, err := v.r.ReadAt(offset, fatEntrySize)
	if err != nil {
		return FATEntry{}, fmt.Errorf("%w: %v", ErrFATCorrupt, err)
	}
	return FATEntry{
		Value: binary.LittleEndian.Uint32(data[0:4]),
		Next:  binary.LittleEndian.Uint32(data[4:8]),
	}, nil
}

func (v *Volume) resolveFATOffset(block uint32) (int64, error) {
	for _, seg := range v.segments {
		if block >= seg.firstBlock && block < seg.lastBlockExcl {
			index := int64(block - seg.firstBlock)
			return seg.dataAreaOffset + index*fatEntrySize, nil
		}
	}
	return 0, fmt.Errorf("%w: block %d", ErrFATCorrupt, block)
}

// WalkChain follows the block chain starting at firstBlock and returns
// every block in order, stopping at the end-of-chain marker.
func (v *Volume) WalkChain(firstBlock uint32) ([]uint32, error) {
	var blocks []uint32
	visited := make(map[uint32]bool)
	current := firstBlock
	for current != fatEndOfChain {
		if visited[current] {
			return nil, fmt.Errorf("%w: block %d", ErrChainCycle, current)
		}
		if len(blocks) >= maxChainLength {
			return nil, fmt.Errorf("%w: exceeded %d blocks", ErrChainTooLong, maxChainLength)
		}
		visited[current] = true
		blocks = append(blocks, current)

		entry, err := v.ReadFATEntry(current)
		if err != nil {
			return nil, err
		}
		current = entry.Next
	}
	return blocks, nil
}

// ReadChain materializes the full byte stream addressed by the block
// chain starting at firstBlock, truncated to length bytes (a file's
// last block is usually only partially used).
func (v *Volume) ReadChain(firstBlock uint32, length uint32) ([]byte, error) {
	blocks, err := v.WalkChain(firstBlock)
	if err != nil {
		return nil, err
	}
	blockSize := v.BlockSize()
	out := make([]byte, 0, length)
	for _, block := range blocks {
		data, err := v.ReadBlock(block)
		if err != nil {
			return nil, err
		}
		remaining := int64(length) - int64(len(out))
		if remaining <= 0 {
			break
		}
		if remaining < int64(blockSize) {
			data = data[:remaining]
		}
		out = append(out, data...)
	}
	if uint32(len(out)) < length {
		return out, fmt.Errorf("%w: chain starting at block %d yielded %d of %d bytes", ErrFATCorrupt, firstBlock, len(out), length)
	}
	return out, nil
}
