package nwfs286

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nwfs-go/nwfs/decode"
)

const dirEntrySize = 32
const entriesPerDirBlock = BlockSize / dirEntrySize

// ErrBadDirectoryEntry is returned when a directory-entry-pool slot is
// the wrong size to decode.
var ErrBadDirectoryEntry = errors.New("nwfs286: malformed directory entry")

// parseDirEntry decodes one 32-byte directory-entry-pool slot. parent_dir
// is the one big-endian field in an otherwise little-endian record;
// every other numeric field uses decode.LittleEndianUint16/32.
func parseDirEntry(data []byte, entryID uint16) (Entry, error) {
	if len(data) != dirEntrySize {
		return Entry{}, fmt.Errorf("%w: must be %d bytes, got %d", ErrBadDirectoryEntry, dirEntrySize, len(data))
	}
	parentDir := decode.BigEndianUint16(data[0:2])
	name := decode.AsciizToString(data[2:14])
	unk14 := decode.LittleEndianUint16(data[14:16])
	attr := decode.LittleEndianUint16(data[16:18])

	if attr&attrDirectory == attrDirectory {
		d := &DirectoryItem{
			EntryID:          entryID,
			ParentDir:        parentDir,
			Name:             name,
			Unk14:            unk14,
			AttrRaw:          attr,
			LastModifiedDate: decode.Stamp286Date(decode.LittleEndianUint16(data[18:20])),
			LastModifiedTime: decode.Stamp286Time(decode.LittleEndianUint16(data[20:22])),
			Unk22:            decode.LittleEndianUint16(data[22:24]),
			Unk24:            decode.LittleEndianUint16(data[24:26]),
			Unk26:            decode.LittleEndianUint16(data[26:28]),
			Unk28:            decode.LittleEndianUint16(data[28:30]),
			Unk30:            decode.LittleEndianUint16(data[30:32]),
		}
		return Entry{Directory: d}, nil
	}

	sizeHigh := decode.LittleEndianUint16(data[18:20])
	sizeLow := decode.LittleEndianUint16(data[20:22])
	f := &FileItem{
		EntryID:          entryID,
		ParentDir:        parentDir,
		Name:             name,
		Unk14:            unk14,
		AttrRaw:          attr,
		Size:             uint32(sizeHigh)<<16 | uint32(sizeLow),
		CreationDate:     decode.Stamp286Date(decode.LittleEndianUint16(data[22:24])),
		LastAccessedDate: decode.Stamp286Date(decode.LittleEndianUint16(data[24:26])),
		LastModifiedDate: decode.Stamp286Date(decode.LittleEndianUint16(data[26:28])),
		LastModifiedTime: decode.Stamp286Time(decode.LittleEndianUint16(data[28:30])),
		BlockNr:          decode.LittleEndianUint16(data[30:32]),
	}
	return Entry{File: f}, nil
}

// Directory is the decoded, index-built view of a volume's entire
// directory-entry pool: every slot, in scan order, plus a
// parent-to-children index for fast traversal.
type Directory struct {
	Entries  []Entry
	children map[uint16][]int
}

// ReadDirectory reads every directory block listed in
// vol.Info.DirectoryBlocks directly - NWFS286 directory entries are not
// chained through the FAT, they're just a flat pool addressed by the
// volume-info sector's own block list. Entry IDs are assigned as a
// sequential counter across the whole scan, so block_nr-addressed
// subdirectory lookups line up.
func ReadDirectory(v *Volume) (*Directory, error) {
	d := &Directory{children: make(map[uint16][]int)}
	var entryID uint16
	for _, block := range v.Info.DirectoryBlocks {
		data, err := v.ReadBlock(block)
		if err != nil {
			return nil, fmt.Errorf("nwfs286: read directory block %d: %w", block, err)
		}
		for i := 0; i < entriesPerDirBlock; i++ {
			slot := data[i*dirEntrySize : (i+1)*dirEntrySize]
			entry, err := parseDirEntry(slot, entryID)
			if err != nil {
				return nil, err
			}
			idx := len(d.Entries)
			d.Entries = append(d.Entries, entry)
			d.children[entry.ParentDirID()] = append(d.children[entry.ParentDirID()], idx)
			entryID++
		}
	}
	return d, nil
}

// Children returns every entry whose parent_dir is parentID, in on-disk
// scan order.
func (d *Directory) Children(parentID uint16) []Entry {
	indices := d.children[parentID]
	out := make([]Entry, 0, len(indices))
	for _, idx := range indices {
		out = append(out, d.Entries[idx])
	}
	return out
}

// Lookup finds the single file or directory entry named name (case
// insensitive) directly under parentID.
func (d *Directory) Lookup(parentID uint16, name string) (Entry, bool) {
	for _, e := range d.Children(parentID) {
		if strings.EqualFold(e.Name(), name) {
			return e, true
		}
	}
	return Entry{}, false
}
