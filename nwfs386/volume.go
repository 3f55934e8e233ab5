package nwfs386

import (
	"errors"
	"fmt"

	"github.com/nwfs-go/nwfs/decode"
	"github.com/nwfs-go/nwfs/image"
	"github.com/nwfs-go/nwfs/logger"
)

const (
	hotfixSector     = 32
	hotfixCopyStride = 4096 // four copies span a 16 KiB area, 4 KiB apart
	hotfixSize       = 60   // Tag(8) + ID(4) + Unk1(8) + DataAreaSectors(4) + RedirAreaSectors(4) + Unk2(32)
	mirrorSector     = hotfixSector + 1
	mirrorSize       = 40 // Tag(8) + CreateTime(4) + Unk1(20) + HotfixVID1(4) + HotfixVID2(4)
	volumeAreaSize   = 4 * 16384 // 64 KiB
	volumesMagic     = "NetWare Volumes"
	hotfixTag        = "HOTFIX00"
	mirrorTag        = "MIRROR00"
)

var (
	// ErrBadMagic is returned when a HOTFIX, MIRROR, or volume-area tag
	// does not match the expected on-disk constant.
	ErrBadMagic = errors.New("nwfs386: tag mismatch")
	// ErrBadBlockValue is returned when a volume's block_value does not
	// divide 256 evenly, so no valid block size can be derived from it.
	ErrBadBlockValue = errors.New("nwfs386: invalid block_value")
	// ErrVolumeNotFound is returned when no volume entry in the volume
	// area matches the requested name.
	ErrVolumeNotFound = errors.New("nwfs386: volume not found")
	// ErrBlockNotInSegment is returned by Volume.ResolveBlock when a
	// block number falls outside every known segment of the volume:
	// the spanning case where the remaining segments live on another
	// partition this decoder was not given.
	ErrBlockNotInSegment = errors.New("nwfs386: block not in any known segment")
)

func blockSizeFromValue(blockValue uint32) (uint32, error) {
	if blockValue == 0 || 256%blockValue != 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadBlockValue, blockValue)
	}
	size := (256 / blockValue) * 1024
	if size == 0 || size%uint32(image.SectorSize) != 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadBlockValue, blockValue)
	}
	return size, nil
}

// segment is one volume-area entry belonging to the mounted volume,
// with its block size already validated and its byte offset within the
// image resolved.
type segment struct {
	entry           VolumeEntry
	blockSize       uint32
	dataAreaOffset  int64 // byte offset of first_segment_block within the image
	firstBlock      uint32
	lastBlockExcl   uint32
}

// Volume is a mounted NWFS386 volume: the hotfix/mirror headers plus
// every segment (in the spanned-volume case, more than one) that makes
// up the named volume.
type Volume struct {
	r        image.Reader
	base     int64 // byte offset of the partition start within the image
	Hotfix   Hotfix
	Mirror   Mirror
	Name     string
	segments []segment
}

// Mount reads the HOTFIX, MIRROR, and volume-area metadata from the
// partition starting at base and returns the named volume.
func Mount(r image.Reader, base int64, name string) (*Volume, error) {
	hotfix, err := readHotfix(r, base)
	if err != nil {
		return nil, err
	}
	mirror, err := readMirror(r, base)
	if err != nil {
		return nil, err
	}

	volumeAreaOffset := base + hotfixSector*image.SectorSize + int64(hotfix.RedirAreaSectors)*image.SectorSize
	entries, err := readVolumeArea(r, volumeAreaOffset)
	if err != nil {
		return nil, err
	}
	v := &Volume{r: r, base: base, Hotfix: hotfix, Mirror: mirror, Name: name}
	for _, e := range entries {
		if e.Name() != name {
			continue
		}
		blockSize, err := blockSizeFromValue(e.BlockValue)
		if err != nil {
			return nil, fmt.Errorf("nwfs386: volume %q segment %d: %w", name, e.SegmentNum, err)
		}
		seg := segment{
			entry:          e,
			blockSize:      blockSize,
			dataAreaOffset: base + int64(e.FirstSector)*image.SectorSize,
			firstBlock:     e.FirstSegmentBlock,
			lastBlockExcl:  e.FirstSegmentBlock + e.TotalBlocks,
		}
		v.segments = append(v.segments, seg)
	}
	if len(v.segments) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrVolumeNotFound, name)
	}
	logger.NWLogger.Info(fmt.Sprintf("nwfs386: mounted volume %q with %d segment(s)", name, len(v.segments)))
	return v, nil
}

func readHotfix(r image.Reader, base int64) (Hotfix, error) {
	var lastErr error
	for copyIdx := 0; copyIdx < 4; copyIdx++ {
		offset := base + hotfixSector*image.SectorSize + int64(copyIdx)*hotfixCopyStride
		data, err := r.ReadAt(offset, hotfixSize)
		if err != nil {
			lastErr = err
			continue
		}
		var h Hotfix
		if err := decode.Unpack(data, &h); err != nil {
			lastErr = err
			continue
		}
		if h.TagString() != hotfixTag {
			lastErr = fmt.Errorf("%w: hotfix copy %d: got %q", ErrBadMagic, copyIdx, h.TagString())
			continue
		}
		return h, nil
	}
	return Hotfix{}, fmt.Errorf("nwfs386: no valid hotfix copy found: %w", lastErr)
}

func readMirror(r image.Reader, base int64) (Mirror, error) {
	offset := base + mirrorSector*image.SectorSize
	data, err := r.ReadAt(offset, mirrorSize)
	if err != nil {
		return Mirror{}, fmt.Errorf("nwfs386: read mirror: %w", err)
	}
	var m Mirror
	if err := decode.Unpack(data, &m); err != nil {
		return Mirror{}, fmt.Errorf("nwfs386: decode mirror: %w", err)
	}
	if m.TagString() != mirrorTag {
		return Mirror{}, fmt.Errorf("%w: mirror: got %q", ErrBadMagic, m.TagString())
	}
	return m, nil
}

// volumeEntrySize is the on-disk volume-entry width: 1 (name length) +
// 19 (name) + 2 + 2 + 4*9 = 60 bytes, matching the field layout above.
const volumeEntrySize = 60

func readVolumeArea(r image.Reader, offset int64) ([]VolumeEntry, error) {
	header, err := r.ReadAt(offset, 20)
	if err != nil {
		return nil, fmt.Errorf("nwfs386: read volume area: %w", err)
	}
	if magic := decode.AsciizToString(header[:16]); magic != volumesMagic {
		return nil, fmt.Errorf("%w: volume area: got %q", ErrBadMagic, magic)
	}
	count := decode.LittleEndianUint32(header[16:20])

	entries := make([]VolumeEntry, 0, count)
	pos := offset + 20
	for i := uint32(0); i < count; i++ {
		data, err := r.ReadAt(pos, volumeEntrySize)
		if err != nil {
			return nil, fmt.Errorf("nwfs386: read volume entry %d: %w", i, err)
		}
		var e VolumeEntry
		if err := decode.Unpack(data, &e); err != nil {
			return nil, fmt.Errorf("nwfs386: decode volume entry %d: %w", i, err)
		}
		entries = append(entries, e)
		pos += volumeEntrySize
	}
	return entries, nil
}

// BlockSize returns the mounted volume's block size in bytes. Every
// segment of a spanned volume shares the same block size.
func (v *Volume) BlockSize() uint32 {
	return v.segments[0].blockSize
}

// RootDirBlock returns the block number of the volume's root directory.
func (v *Volume) RootDirBlock() uint32 {
	return v.segments[0].entry.RootDirBlockNr
}

// ResolveBlock maps a logical block number to its byte offset within
// the image, searching every segment of the volume in turn.
func (v *Volume) ResolveBlock(block uint32) (int64, error) {
	for _, seg := range v.segments {
		if block >= seg.firstBlock && block < seg.lastBlockExcl {
			index := int64(block - seg.firstBlock)
			return seg.dataAreaOffset + index*int64(seg.blockSize), nil
		}
	}
	return 0, fmt.Errorf("%w: block %d", ErrBlockNotInSegment, block)
}

// ReadBlock reads one full block of the volume.
func (v *Volume) ReadBlock(block uint32) ([]byte, error) {
	offset, err := v.ResolveBlock(block)
	if err != nil {
		return nil, err
	}
	return v.r.ReadAt(offset, int(v.BlockSize()))
}
