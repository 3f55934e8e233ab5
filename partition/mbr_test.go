package partition

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/nwfs-go/nwfs/image"
)

type memReader struct {
	data []byte
}

func (m *memReader) ReadAt(offset int64, length int) ([]byte, error) {
	if offset+int64(length) > int64(len(m.data)) {
		return nil, image.ErrOutOfRange
	}
	return m.data[offset : offset+int64(length)], nil
}
func (m *memReader) Size() int64  { return int64(len(m.data)) }
func (m *memReader) Close() error { return nil }

func makeMBR(entries map[int]struct {
	Type     byte
	StartLBA uint32
	Sectors  uint32
}) *memReader {
	data := make([]byte, 512)
	for i, e := range entries {
		off := tableOffset + i*entrySize
		data[off+4] = e.Type
		binary.LittleEndian.PutUint32(data[off+8:], e.StartLBA)
		binary.LittleEndian.PutUint32(data[off+12:], e.Sectors)
	}
	data[510] = 0x55
	data[511] = 0xaa
	return &memReader{data: data}
}

func TestLocateSingleNWFS386(t *testing.T) {
	r := makeMBR(map[int]struct {
		Type     byte
		StartLBA uint32
		Sectors  uint32
	}{
		0: {Type: typeNWFS386, StartLBA: 63, Sectors: 2048},
	})
	p, err := Locate(r)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if p.Version != NWFS386 || p.StartLBA != 63 || p.SectorCount != 2048 {
		t.Errorf("got %+v", p)
	}
}

func TestLocateNoPartition(t *testing.T) {
	r := makeMBR(nil)
	_, err := Locate(r)
	if !errors.Is(err, ErrNoPartition) {
		t.Errorf("expected ErrNoPartition, got %v", err)
	}
}

func TestLocateMultiplePartitions(t *testing.T) {
	r := makeMBR(map[int]struct {
		Type     byte
		StartLBA uint32
		Sectors  uint32
	}{
		0: {Type: typeNWFS286, StartLBA: 63, Sectors: 100},
		1: {Type: typeNWFS386, StartLBA: 200, Sectors: 100},
	})
	_, err := Locate(r)
	if !errors.Is(err, ErrMultiplePartitions) {
		t.Errorf("expected ErrMultiplePartitions, got %v", err)
	}
}

func TestLocateBadSignature(t *testing.T) {
	r := makeMBR(nil)
	r.data[510] = 0
	_, err := Locate(r)
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("expected ErrBadSignature, got %v", err)
	}
}
