package nwfs386

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nwfs-go/nwfs/decode"
	"github.com/nwfs-go/nwfs/perm"
)

// RootDirectoryID is the parent_dir_id value every top-level entry
// carries; NWFS386 gives the volume root no directory entry of its own.
const RootDirectoryID uint32 = 0

const dirEntrySize = 128

// ErrBadDirectoryEntry is returned when a directory-entry-pool slot is
// the wrong size to decode.
var ErrBadDirectoryEntry = errors.New("nwfs386: malformed directory entry")

// Entry is one decoded directory-entry-pool slot. Exactly one of the
// typed fields is non-nil, matching the five slot kinds the on-disk
// pool distinguishes by parent_dir_id sentinel or attribute bit.
type Entry struct {
	Available         *AvailableEntry
	GrantList         *GrantListEntry
	VolumeInformation *VolumeInformationEntry
	File              *FileEntry
	Directory         *DirectoryEntry
}

// ParentDirID returns the slot's parent_dir_id field regardless of
// which variant it decoded to.
func (e Entry) ParentDirID() uint32 {
	switch {
	case e.Available != nil:
		return e.Available.ParentDirID
	case e.GrantList != nil:
		return e.GrantList.ParentDirID
	case e.VolumeInformation != nil:
		return e.VolumeInformation.ParentDirID
	case e.File != nil:
		return e.File.ParentDirID
	case e.Directory != nil:
		return e.Directory.ParentDirID
	}
	return 0
}

// Deleted reports whether the slot is a file entry whose delete_time is
// set; NetWare leaves a deleted file's slot in place with this flag
// until it is recycled.
func (e Entry) Deleted() bool {
	return e.File != nil && e.File.DeleteTime.Valid()
}

func parseDirectoryEntry(data []byte) (Entry, error) {
	if len(data) != dirEntrySize {
		return Entry{}, fmt.Errorf("%w: must be %d bytes, got %d", ErrBadDirectoryEntry, dirEntrySize, len(data))
	}
	parentDirID := decode.LittleEndianUint32(data[0:4])
	switch parentDirID {
	case dirIDGrantList:
		var g GrantListEntry
		if err := decode.Unpack(data, &g); err != nil {
			return Entry{}, err
		}
		return Entry{GrantList: &g}, nil
	case dirIDVolumeInfo:
		var v VolumeInformationEntry
		if err := decode.Unpack(data, &v); err != nil {
			return Entry{}, err
		}
		return Entry{VolumeInformation: &v}, nil
	case dirIDAvailable:
		var a AvailableEntry
		a.ParentDirID = parentDirID
		return Entry{Available: &a}, nil
	default:
		attr := decode.LittleEndianUint32(data[4:8])
		if perm.Attrs(attr).IsDirectory() {
			var d DirectoryEntry
			if err := decode.Unpack(data, &d); err != nil {
				return Entry{}, err
			}
			return Entry{Directory: &d}, nil
		}
		var f FileEntry
		if err := decode.Unpack(data, &f); err != nil {
			return Entry{}, err
		}
		return Entry{File: &f}, nil
	}
}

// Directory is the decoded, index-built view of a volume's entire
// directory-entry pool: every slot plus a parent-to-children index for
// fast traversal.
type Directory struct {
	Entries  []Entry
	children map[uint32][]int // parent dir ID -> indices into Entries
}

// ReadDirectory walks the volume's root directory block chain, decodes
// every 128-byte slot in every block, and indexes the result by
// parent_dir_id.
func ReadDirectory(v *Volume) (*Directory, error) {
	blocks, err := v.WalkChain(v.RootDirBlock())
	if err != nil {
		return nil, fmt.Errorf("nwfs386: walk root directory chain: %w", err)
	}

	entriesPerBlock := int(v.BlockSize()) / dirEntrySize
	d := &Directory{children: make(map[uint32][]int)}
	for _, block := range blocks {
		data, err := v.ReadBlock(block)
		if err != nil {
			return nil, fmt.Errorf("nwfs386: read directory block %d: %w", block, err)
		}
		for i := 0; i < entriesPerBlock; i++ {
			slot := data[i*dirEntrySize : (i+1)*dirEntrySize]
			entry, err := parseDirectoryEntry(slot)
			if err != nil {
				return nil, err
			}
			idx := len(d.Entries)
			d.Entries = append(d.Entries, entry)
			if entry.Available == nil {
				d.children[entry.ParentDirID()] = append(d.children[entry.ParentDirID()], idx)
			}
		}
	}
	return d, nil
}

// Children returns every file/directory/grant-list/volume-information
// entry whose parent_dir_id is parentID, in on-disk order.
func (d *Directory) Children(parentID uint32) []Entry {
	indices := d.children[parentID]
	out := make([]Entry, 0, len(indices))
	for _, idx := range indices {
		out = append(out, d.Entries[idx])
	}
	return out
}

// Lookup finds the single file or directory entry named name (case
// insensitive) directly under parentID, ignoring deleted file entries.
func (d *Directory) Lookup(parentID uint32, name string) (Entry, bool) {
	for _, e := range d.Children(parentID) {
		if e.Deleted() {
			continue
		}
		var entryName string
		switch {
		case e.File != nil:
			entryName = e.File.Name()
		case e.Directory != nil:
			entryName = e.Directory.Name()
		default:
			continue
		}
		if strings.EqualFold(entryName, name) {
			return e, true
		}
	}
	return Entry{}, false
}
