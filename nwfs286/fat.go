package nwfs286

import (
	"fmt"

	"github.com/nwfs-go/nwfs/decode"
)

const fatEntrySize = 4 // two little-endian uint16 words per entry
const entriesPerFATBlock = BlockSize / fatEntrySize

// FAT is the volume's flat, block-indexed allocation table: FAT[n]
// describes block n directly, no linear scan or end-of-chain sentinel
// involved. A file's last block is found by counting down its declared
// size, not by following a terminator.
type FAT struct {
	entries []FATEntry
}

// ReadFAT builds the flat FAT array from every block listed in
// vol.Info.FATBlocks, read in order.
func ReadFAT(v *Volume) (*FAT, error) {
	entries := make([]FATEntry, 0, len(v.Info.FATBlocks)*entriesPerFATBlock)
	for _, block := range v.Info.FATBlocks {
		data, err := v.ReadBlock(block)
		if err != nil {
			return nil, fmt.Errorf("nwfs286: read FAT block %d: %w", block, err)
		}
		for i := 0; i < entriesPerFATBlock; i++ {
			rec := data[i*fatEntrySize : (i+1)*fatEntrySize]
			entries = append(entries, FATEntry{
				Index: decode.LittleEndianUint16(rec[0:2]),
				Next:  decode.LittleEndianUint16(rec[2:4]),
			})
		}
	}
	return &FAT{entries: entries}, nil
}

// Next returns the block that follows block in its chain, found by
// direct array indexing rather than a scan for a matching Index field;
// Index itself is never validated.
func (f *FAT) Next(block uint16) (uint16, error) {
	if int(block) >= len(f.entries) {
		return 0, fmt.Errorf("nwfs286: block %d out of FAT range (%d entries)", block, len(f.entries))
	}
	return f.entries[block].Next, nil
}

// ReadFile reads a file's content given its first block and declared
// size, chunking BlockSize bytes (or whatever remains) per block and
// stopping exactly at size - there is no end-of-chain marker to trust.
func ReadFile(v *Volume, fat *FAT, firstBlock uint16, size uint32) ([]byte, error) {
	out := make([]byte, 0, size)
	block := firstBlock
	bytesLeft := int(size)
	for bytesLeft > 0 {
		chunk := BlockSize
		if bytesLeft < chunk {
			chunk = bytesLeft
		}
		data, err := v.ReadBlock(block)
		if err != nil {
			return nil, fmt.Errorf("nwfs286: read block %d: %w", block, err)
		}
		out = append(out, data[:chunk]...)
		bytesLeft -= chunk
		if bytesLeft == 0 {
			break
		}
		block, err = fat.Next(block)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
