// Package image provides random-access byte sources over a disk image,
// trimmed to the read-only, whole-image case NWFS needs: a plain file,
// or (on Windows) a physical drive opened directly.
package image

import (
	"errors"
	"fmt"
)

const SectorSize = 512

// ErrOutOfRange is returned when a read would extend past the end of
// the image.
var ErrOutOfRange = errors.New("image: read out of range")

// ErrShortRead is returned when the underlying source returned fewer
// bytes than requested without an error of its own.
var ErrShortRead = errors.New("image: short read")

// Reader is a random-access byte source over a disk image.
type Reader interface {
	// ReadAt reads exactly length bytes starting at offset.
	ReadAt(offset int64, length int) ([]byte, error)
	// Size returns the total addressable size of the image in bytes,
	// or -1 if unknown.
	Size() int64
	// Close releases any underlying handle.
	Close() error
}

// ReadSector reads the 512-byte sector at the given logical block
// address.
func ReadSector(r Reader, lba int64) ([512]byte, error) {
	var sector [512]byte
	data, err := r.ReadAt(lba*SectorSize, SectorSize)
	if err != nil {
		return sector, err
	}
	copy(sector[:], data)
	return sector, nil
}

func checkRange(size int64, offset int64, length int) error {
	if size >= 0 && offset+int64(length) > size {
		return fmt.Errorf("%w: offset %d length %d exceeds size %d", ErrOutOfRange, offset, length, size)
	}
	return nil
}
