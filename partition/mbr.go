// Package partition locates the NetWare partition inside an MBR
// partition table, matching on NWFS286/NWFS386 type bytes instead of
// the more common NTFS/BTRFS ones.
package partition

import (
	"errors"
	"fmt"

	"github.com/nwfs-go/nwfs/decode"
	"github.com/nwfs-go/nwfs/image"
	"github.com/nwfs-go/nwfs/logger"
)

// Version identifies which on-disk NetWare filesystem format a
// partition holds.
type Version int

const (
	Unknown Version = iota
	NWFS286
	NWFS386
)

func (v Version) String() string {
	switch v {
	case NWFS286:
		return "NWFS286"
	case NWFS386:
		return "NWFS386"
	default:
		return "unknown"
	}
}

const (
	typeNWFS286 = 0x64
	typeNWFS386 = 0x65

	tableOffset = 446
	entrySize   = 16
	entryCount  = 4
	mbrSize     = 512
)

var (
	// ErrNoPartition is returned when sector 0 contains no NetWare
	// partition-type byte.
	ErrNoPartition = errors.New("partition: no NetWare partition found")
	// ErrMultiplePartitions is returned when more than one NetWare
	// partition-type byte is present; NetWare itself never creates more
	// than one, so this is treated as a user error rather than a
	// spanned-volume case.
	ErrMultiplePartitions = errors.New("partition: multiple NetWare partitions found")
	// ErrBadSignature is returned when the MBR's 0x55AA signature is
	// missing.
	ErrBadSignature = errors.New("partition: bad MBR signature")
)

// rawEntry mirrors the 16-byte on-disk partition table entry.
type rawEntry struct {
	Flag     uint8
	StartCHS [3]byte
	Type     uint8
	EndCHS   [3]byte
	StartLBA uint32
	Sectors  uint32
}

// Partition describes the located NetWare partition.
type Partition struct {
	Version     Version
	StartLBA    uint32
	SectorCount uint32
}

// Offset returns the partition's starting byte offset within the image.
func (p Partition) Offset() int64 {
	return int64(p.StartLBA) * image.SectorSize
}

// Size returns the partition's size in bytes.
func (p Partition) Size() int64 {
	return int64(p.SectorCount) * image.SectorSize
}

// Locate reads sector 0 of r and returns the single NetWare partition it
// finds.
func Locate(r image.Reader) (Partition, error) {
	data, err := r.ReadAt(0, mbrSize)
	if err != nil {
		return Partition{}, fmt.Errorf("partition: read MBR: %w", err)
	}
	if sig := decode.Hexify(data[510:512]); sig != "55aa" {
		return Partition{}, fmt.Errorf("%w: got %s", ErrBadSignature, sig)
	}

	var found []Partition
	for i := 0; i < entryCount; i++ {
		start := tableOffset + i*entrySize
		var entry rawEntry
		if err := decode.Unpack(data[start:start+entrySize], &entry); err != nil {
			return Partition{}, fmt.Errorf("partition: decode entry %d: %w", i, err)
		}
		var version Version
		switch entry.Type {
		case typeNWFS286:
			version = NWFS286
		case typeNWFS386:
			version = NWFS386
		default:
			continue
		}
		logger.NWLogger.Info(fmt.Sprintf("partition: found %s at LBA %d, %d sectors", version, entry.StartLBA, entry.Sectors))
		found = append(found, Partition{Version: version, StartLBA: entry.StartLBA, SectorCount: entry.Sectors})
	}

	switch len(found) {
	case 0:
		return Partition{}, ErrNoPartition
	case 1:
		return found[0], nil
	default:
		return Partition{}, fmt.Errorf("%w: found %d", ErrMultiplePartitions, len(found))
	}
}
