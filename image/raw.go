package image

import (
	"fmt"
	"os"

	"github.com/nwfs-go/nwfs/logger"
)

// RawFileReader reads a disk image from an ordinary file: open once,
// ReadAt per request.
type RawFileReader struct {
	path string
	fd   *os.File
	size int64
}

// OpenRawFile opens path for random-access reads.
func OpenRawFile(path string) (*RawFileReader, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("image: open %s: %w", path, err)
	}
	info, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, fmt.Errorf("image: stat %s: %w", path, err)
	}
	return &RawFileReader{path: path, fd: fd, size: info.Size()}, nil
}

func (r *RawFileReader) ReadAt(offset int64, length int) ([]byte, error) {
	if err := checkRange(r.size, offset, length); err != nil {
		return nil, err
	}
	data := make([]byte, length)
	n, err := r.fd.ReadAt(data, offset)
	msg := fmt.Sprintf("raw read: offset %d len %d", offset, length)
	logger.NWLogger.Info(msg)
	if err != nil {
		logger.NWLogger.Error(fmt.Sprintf("error %s reading %s", err, r.path))
		return nil, fmt.Errorf("image: read at %d: %w", offset, err)
	}
	if n != length {
		return nil, fmt.Errorf("%w: got %d of %d bytes at offset %d", ErrShortRead, n, length, offset)
	}
	return data, nil
}

func (r *RawFileReader) Size() int64 {
	return r.size
}

func (r *RawFileReader) Close() error {
	return r.fd.Close()
}
