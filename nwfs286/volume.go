package nwfs286

import (
	"errors"
	"fmt"

	"github.com/nwfs-go/nwfs/decode"
	"github.com/nwfs-go/nwfs/image"
	"github.com/nwfs-go/nwfs/logger"
)

const (
	sectorVolumeInfo = 0x10 // volume-info sector, relative to the partition start
	volumeInfoMagic   = 0xfade
)

// ErrBadMagic is returned when the NetWare 2.15+ volume-info layout's
// magic word does not match.
var ErrBadMagic = errors.New("nwfs286: volume information magic mismatch")

// Volume is a mounted NWFS286 volume: its info-sector metadata plus the
// image and partition base needed to resolve block numbers to byte
// offsets.
type Volume struct {
	r    image.Reader
	base int64
	Info VolumeInfo
}

// Mount reads the volume-info sector at sector 16 of the partition
// starting at base. Unlike NWFS386, there is exactly one volume per
// partition and no name to match against - the caller already knows
// which partition holds the volume it wants.
func Mount(r image.Reader, base int64) (*Volume, error) {
	data, err := r.ReadAt(base+sectorVolumeInfo*image.SectorSize, int(image.SectorSize))
	if err != nil {
		return nil, fmt.Errorf("nwfs286: read volume info sector: %w", err)
	}

	info, err := parseVolumeInfo(data)
	if err != nil {
		return nil, err
	}
	logger.NWLogger.Info(fmt.Sprintf("nwfs286: mounted volume %q", info.Name))
	return &Volume{r: r, base: base, Info: info}, nil
}

// parseVolumeInfo decodes the volume-info sector. It carries two
// incompatible layouts distinguished by a leading marker word: zero
// means the NetWare 2.15+ layout (a magic word, then a 16-byte
// NUL-padded name at offset 6), nonzero means the pre-2.15 layout (the
// same 16-byte name field at offset 2).
// Both converge on the same trailing fields: a remap word, an entry
// count, and three parallel entry_count-length block-number arrays.
func parseVolumeInfo(sector []byte) (VolumeInfo, error) {
	pos := 0
	readU16 := func() uint16 {
		v := decode.LittleEndianUint16(sector[pos : pos+2])
		pos += 2
		return v
	}
	readU8 := func() uint8 {
		v := sector[pos]
		pos++
		return v
	}

	var nameRaw [16]byte

	marker := readU16()
	if marker == 0 {
		magic := readU16()
		if magic != volumeInfoMagic {
			return VolumeInfo{}, fmt.Errorf("%w: got %#x", ErrBadMagic, magic)
		}
		readU16() // unk4, expected 1
		copy(nameRaw[:], sector[pos:pos+16])
		pos += 16
	} else {
		copy(nameRaw[:], sector[pos:pos+16])
		pos += 16
		readU16() // unk18, expected 4
	}
	name := decode.AsciizToString(nameRaw[:])

	readU16() // remap, bad-sector-remapping bookkeeping this decoder doesn't use
	entryCount := int(readU8())
	readU8() // unk23_25, expected 3

	readBlocks := func() []uint16 {
		blocks := make([]uint16, entryCount)
		for i := range blocks {
			blocks[i] = readU16()
		}
		return blocks
	}
	directoryBlocks := readBlocks()
	directoryBackupBlocks := readBlocks()
	fatBlocks := readBlocks()

	return VolumeInfo{
		Name:                  name,
		DirectoryBlocks:       directoryBlocks,
		DirectoryBackupBlocks: directoryBackupBlocks,
		FATBlocks:             fatBlocks,
	}, nil
}

// BlockToOffset maps a logical block number to its absolute byte offset
// within the image, including the partition's own base offset - needed
// so a multi-partition image can tell which partition a block number
// belongs to.
func (v *Volume) BlockToOffset(block uint16) int64 {
	return v.base + (int64(block)+4)*BlockSize
}

// ReadBlock reads one full 4 KiB block of the volume.
func (v *Volume) ReadBlock(block uint16) ([]byte, error) {
	return v.r.ReadAt(v.BlockToOffset(block), BlockSize)
}
