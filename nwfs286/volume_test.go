package nwfs286

import (
	"encoding/binary"
	"errors"
	"testing"
)

type memImage struct {
	data []byte
}

func (m *memImage) ReadAt(offset int64, length int) ([]byte, error) {
	end := offset + int64(length)
	if end > int64(len(m.data)) {
		return nil, errors.New("memImage: out of range")
	}
	return m.data[offset:end], nil
}
func (m *memImage) Size() int64  { return int64(len(m.data)) }
func (m *memImage) Close() error { return nil }

func putU16(buf []byte, offset int, v uint16) {
	binary.LittleEndian.PutUint16(buf[offset:offset+2], v)
}

func putU16BE(buf []byte, offset int, v uint16) {
	binary.BigEndian.PutUint16(buf[offset:offset+2], v)
}

func putString(buf []byte, offset int, s string) {
	copy(buf[offset:], s)
}

// blockOffset mirrors Volume.BlockToOffset for a zero partition base,
// used to place test fixtures at the right spot in the synthetic image.
func blockOffset(block uint16) int64 {
	return (int64(block) + 4) * BlockSize
}

// buildTestImage assembles a single-volume NetWare 2.15+-layout image
// named "TESTVOL" with one directory block (one file, one subdirectory)
// and one FAT block.
func buildTestImage(t *testing.T) *memImage {
	const (
		volInfoOffset = sectorVolumeInfo * 512
		dirBlock      = 10
		fatBlock      = 11
		fileDataBlock = 12
		imageSize     = 20 * BlockSize
	)

	buf := make([]byte, imageSize)

	// Volume info sector, NetWare 2.15+ layout (marker == 0).
	putU16(buf, volInfoOffset+0, 0)               // marker
	putU16(buf, volInfoOffset+2, volumeInfoMagic)  // magic
	putU16(buf, volInfoOffset+4, 1)                // unk4
	putString(buf, volInfoOffset+6, "TESTVOL")     // name[16]
	putU16(buf, volInfoOffset+22, 0)               // remap
	buf[volInfoOffset+24] = 1                      // entry_count
	buf[volInfoOffset+25] = 3                      // unk23_25
	putU16(buf, volInfoOffset+26, dirBlock)        // directory_entries_1_blocks[0]
	putU16(buf, volInfoOffset+28, dirBlock)        // directory_entries_2_blocks[0]
	putU16(buf, volInfoOffset+30, fatBlock)        // fat_blocks[0]

	// Directory block: slot 0 = file TEST.TXT, slot 1 = directory SUB.
	dirOffset := int(blockOffset(dirBlock))
	fileSlot := dirOffset + 0*dirEntrySize
	putU16BE(buf, fileSlot+0, RootDirectoryID) // parent_dir
	putString(buf, fileSlot+2, "TEST.TXT")
	putU16(buf, fileSlot+14, 0) // unk14
	putU16(buf, fileSlot+16, 0) // attr (file)
	putU16(buf, fileSlot+18, 0) // size high
	putU16(buf, fileSlot+20, 10) // size low
	putU16(buf, fileSlot+22, 0x9821) // creation_date
	putU16(buf, fileSlot+24, 0x9821) // last_accessed_date
	putU16(buf, fileSlot+26, 0x9821) // last_modified_date
	putU16(buf, fileSlot+28, 0x4179) // last_modified_time
	putU16(buf, fileSlot+30, fileDataBlock)

	dirSlot := dirOffset + 1*dirEntrySize
	putU16BE(buf, dirSlot+0, RootDirectoryID)
	putString(buf, dirSlot+2, "SUB")
	putU16(buf, dirSlot+14, 0)
	putU16(buf, dirSlot+16, attrDirectory)
	putU16(buf, dirSlot+18, 0x9821)
	putU16(buf, dirSlot+20, 0x4179)

	// Remaining slots default to attr 0 / parent_dir 0, which is fine:
	// nothing looks them up by name, and RootDirectoryID (1) never
	// collides with the zero-valued defaults.

	// FAT block: entry[fileDataBlock] terminates the one-block chain
	// (never consulted since the file fits in its first block, but
	// populated to mirror a real volume).
	fatOffset := int(blockOffset(fatBlock))
	putU16(buf, fatOffset+int(fileDataBlock)*4+0, fileDataBlock) // index
	putU16(buf, fatOffset+int(fileDataBlock)*4+2, fileDataBlock) // next (self; unused)

	// File data block.
	putString(buf, int(blockOffset(fileDataBlock)), "HELLOWORLD")

	return &memImage{data: buf}
}

func TestMountAndReadDirectory(t *testing.T) {
	img := buildTestImage(t)
	v, err := Mount(img, 0)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if v.Info.Name != "TESTVOL" {
		t.Errorf("Name = %q, want TESTVOL", v.Info.Name)
	}

	dir, err := ReadDirectory(v)
	if err != nil {
		t.Fatalf("ReadDirectory: %v", err)
	}

	entry, ok := dir.Lookup(RootDirectoryID, "test.txt")
	if !ok || entry.File == nil {
		t.Fatalf("expected to find TEST.TXT, got %+v (ok=%v)", entry, ok)
	}
	if entry.File.Size != 10 {
		t.Errorf("file size = %d, want 10", entry.File.Size)
	}

	sub, ok := dir.Lookup(RootDirectoryID, "SUB")
	if !ok || sub.Directory == nil {
		t.Fatalf("expected to find SUB directory, got %+v (ok=%v)", sub, ok)
	}
}

func TestReadFileReadsContent(t *testing.T) {
	img := buildTestImage(t)
	v, err := Mount(img, 0)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	dir, err := ReadDirectory(v)
	if err != nil {
		t.Fatalf("ReadDirectory: %v", err)
	}
	fat, err := ReadFAT(v)
	if err != nil {
		t.Fatalf("ReadFAT: %v", err)
	}
	entry, ok := dir.Lookup(RootDirectoryID, "TEST.TXT")
	if !ok {
		t.Fatalf("TEST.TXT not found")
	}
	data, err := ReadFile(v, fat, entry.File.BlockNr, entry.File.Size)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "HELLOWORLD" {
		t.Errorf("ReadFile = %q, want HELLOWORLD", string(data))
	}
}

func TestParseVolumeInfoBadMagic(t *testing.T) {
	sector := make([]byte, 512)
	putU16(sector, 0, 0)      // marker
	putU16(sector, 2, 0x1234) // wrong magic
	_, err := parseVolumeInfo(sector)
	if !errors.Is(err, ErrBadMagic) {
		t.Errorf("expected ErrBadMagic, got %v", err)
	}
}
