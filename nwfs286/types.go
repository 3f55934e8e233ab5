// Package nwfs286 decodes the older NetWare 2.x on-disk filesystem: a
// single volume-info sector naming its own directory and FAT block
// lists (no separate hotfix/mirror layer, no block-size negotiation -
// everything is fixed 4 KiB blocks), a flat directory-entry pool split
// across two mirrored block ranges, and a FAT that is itself just a
// block-indexed array of next-block pointers.
package nwfs286

import "github.com/nwfs-go/nwfs/decode"

// BlockSize is fixed for every NWFS286 volume; there is no block_value
// negotiation like NWFS386 has.
const BlockSize = 4096

// RootDirectoryID is the parent_dir value NWFS286 reserves for
// top-level entries. No real directory entry ever carries this as its
// own entry_id: it's a sentinel, not a slot in the pool.
const RootDirectoryID uint16 = 1

// attrDirectory marks a directory-entry-pool slot as a subdirectory
// rather than a file.
const attrDirectory uint16 = 0xff00

// VolumeInfo is the decoded volume-info sector at sector 16: name plus
// the three parallel block-number lists (primary directory copy,
// backup directory copy, FAT).
type VolumeInfo struct {
	Name                   string
	DirectoryBlocks        []uint16
	DirectoryBackupBlocks  []uint16
	FATBlocks              []uint16
}

// FileItem describes a regular file in the directory-entry pool.
type FileItem struct {
	EntryID          uint16
	ParentDir        uint16
	Name             string
	Unk14            uint16
	AttrRaw          uint16
	Size             uint32
	CreationDate     decode.Stamp286Date
	LastAccessedDate decode.Stamp286Date
	LastModifiedDate decode.Stamp286Date
	LastModifiedTime decode.Stamp286Time
	BlockNr          uint16
}

// DirectoryItem describes a subdirectory in the directory-entry pool.
type DirectoryItem struct {
	EntryID          uint16
	ParentDir        uint16
	Name             string
	Unk14            uint16
	AttrRaw          uint16
	LastModifiedDate decode.Stamp286Date
	LastModifiedTime decode.Stamp286Time
	Unk22            uint16
	Unk24            uint16
	Unk26            uint16
	Unk28            uint16
	Unk30            uint16
}

// Entry is one decoded directory-entry-pool slot: exactly one of File
// or Directory is set, distinguished by the 0xff00 attribute bits.
type Entry struct {
	File      *FileItem
	Directory *DirectoryItem
}

// ParentDirID returns the slot's parent_dir field regardless of which
// variant it decoded to.
func (e Entry) ParentDirID() uint16 {
	if e.File != nil {
		return e.File.ParentDir
	}
	return e.Directory.ParentDir
}

// Name returns the slot's file or directory name.
func (e Entry) Name() string {
	if e.File != nil {
		return e.File.Name
	}
	return e.Directory.Name
}

// FATEntry is one slot of the flat, block-indexed FAT array: Index is
// a self-check field never validated on lookup, Next is the chain's
// next block number.
type FATEntry struct {
	Index uint16
	Next  uint16
}
