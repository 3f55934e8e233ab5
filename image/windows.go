//go:build windows

package image

import (
	"fmt"
	"unsafe"

	"github.com/nwfs-go/nwfs/logger"
	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procSetFilePointerEx = kernel32.NewProc("SetFilePointerEx")
)

type diskGeometry struct {
	Cylinders         int64
	MediaType         int32
	TracksPerCylinder int32
	SectorsPerTrack   int32
	BytesPerSector    int32
}

// PhysicalDriveReader reads a disk image directly off a Windows physical
// drive (\\.\PhysicalDriveN). It is read-only and skips a chunked
// giant-read path: NetWare partitions are always small enough to read
// in one syscall once the caller has resolved the byte range it needs.
type PhysicalDriveReader struct {
	path string
	fd   windows.Handle
	size int64
}

// OpenPhysicalDrive opens a physical drive by Windows device path, e.g.
// `\\.\PhysicalDrive0`.
func OpenPhysicalDrive(path string) (*PhysicalDriveReader, error) {
	ptr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("image: encode path %s: %w", path, err)
	}
	fd, err := windows.CreateFile(ptr, windows.GENERIC_READ,
		windows.FILE_SHARE_READ, nil,
		windows.OPEN_EXISTING, windows.FILE_FLAG_SEQUENTIAL_SCAN, 0)
	if err != nil {
		return nil, fmt.Errorf("image: open %s: %w", path, err)
	}
	r := &PhysicalDriveReader{path: path, fd: fd}
	r.size = r.queryGeometrySize()
	return r, nil
}

func (r *PhysicalDriveReader) queryGeometrySize() int64 {
	const ioctlDiskGetDriveGeometry = 0x70000
	const geometrySize = 24
	var geometry diskGeometry
	var junk *uint32
	var inBuffer *byte
	err := windows.DeviceIoControl(r.fd, ioctlDiskGetDriveGeometry,
		inBuffer, 0, (*byte)(unsafe.Pointer(&geometry)), geometrySize, junk, nil)
	if err != nil {
		logger.NWLogger.Warning(fmt.Sprintf("image: could not query geometry of %s: %s", r.path, err))
		return -1
	}
	return geometry.Cylinders * int64(geometry.TracksPerCylinder) *
		int64(geometry.SectorsPerTrack) * int64(geometry.BytesPerSector)
}

func setFilePointerEx(handle windows.Handle, distance int64) error {
	var newPos int64
	r1, _, err := procSetFilePointerEx.Call(
		uintptr(handle),
		uintptr(distance),
		uintptr(unsafe.Pointer(&newPos)),
		uintptr(windows.FILE_BEGIN),
	)
	if r1 == 0 {
		return err
	}
	return nil
}

func (r *PhysicalDriveReader) ReadAt(offset int64, length int) ([]byte, error) {
	if err := checkRange(r.size, offset, length); err != nil {
		return nil, err
	}
	if err := setFilePointerEx(r.fd, offset); err != nil {
		return nil, fmt.Errorf("image: seek to %d on %s: %w", offset, r.path, err)
	}
	data := make([]byte, length)
	var bytesRead uint32
	if err := windows.ReadFile(r.fd, data, &bytesRead, nil); err != nil {
		logger.NWLogger.Error(fmt.Sprintf("image: read failed at offset %d on %s: %s", offset, r.path, err))
		return nil, fmt.Errorf("image: read at %d: %w", offset, err)
	}
	if int(bytesRead) != length {
		return nil, fmt.Errorf("%w: got %d of %d bytes at offset %d", ErrShortRead, bytesRead, length, offset)
	}
	logger.NWLogger.Info(fmt.Sprintf("physical drive read: offset %d len %d", offset, length))
	return data, nil
}

func (r *PhysicalDriveReader) Size() int64 {
	return r.size
}

func (r *PhysicalDriveReader) Close() error {
	return windows.Close(r.fd)
}
