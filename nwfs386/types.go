// Package nwfs386 decodes the NetWare 3.x/4.x on-disk filesystem: the
// HOTFIX/MIRROR/volume metadata trio, the block-addressed File
// Allocation Table, and the flat directory-entry pool that the volume
// header points at.
package nwfs386

import (
	"github.com/nwfs-go/nwfs/decode"
	"github.com/nwfs-go/nwfs/perm"
)

// Directory-entry pool sentinels. A slot's first 4 bytes are a
// parent_dir_id for ordinary file/directory entries, but these three
// reserved values mark special-purpose slots instead.
const (
	dirIDVolumeInfo uint32 = 0xfffffffd
	dirIDGrantList  uint32 = 0xfffffffe
	dirIDAvailable  uint32 = 0xffffffff
)

// Hotfix is the bad-block redirection header, replicated four times at
// sector 32.
type Hotfix struct {
	Tag              [8]byte
	ID               uint32
	Unk1             [4]uint16
	DataAreaSectors  uint32
	RedirAreaSectors uint32
	Unk2             [8]uint32
}

// TagString returns the 8-byte tag as a Go string, stopping at the
// first NUL.
func (h Hotfix) TagString() string {
	return decode.AsciizToString(h.Tag[:])
}

// Mirror is the RAID-1-style metadata duplication header at sector 33.
type Mirror struct {
	Tag        [8]byte
	CreateTime decode.Stamp386
	Unk1       [5]uint32
	HotfixVID1 uint32
	HotfixVID2 uint32
}

func (m Mirror) TagString() string {
	return decode.AsciizToString(m.Tag[:])
}

// VolumeEntry describes one volume (or volume segment, for spanned
// volumes) within the volume area.
type VolumeEntry struct {
	NameLen            uint8
	NameRaw            [19]byte
	Unk1               uint16
	SegmentNum         uint16
	FirstSector        uint32
	NumSectors         uint32
	TotalBlocks        uint32
	FirstSegmentBlock  uint32
	Unk2               uint32
	BlockValue         uint32
	RootDirBlockNr     uint32
	RootDirCopyBlockNr uint32
	Unk3               uint32
}

// Name returns the volume's length-prefixed ASCII name.
func (v VolumeEntry) Name() string {
	return decode.NameWithLength(v.NameRaw[:], v.NameLen)
}

// BlockSize computes the volume's block size in bytes from its
// block_value field: (256 / block_value) * 1024.
func (v VolumeEntry) BlockSize() (uint32, error) {
	return blockSizeFromValue(v.BlockValue)
}

// Trustee is a single object-ID/rights-mask pair embedded in a
// directory entry. Object IDs are stored big-endian; every other
// 32-bit field in a directory entry is little-endian.
type Trustee struct {
	ObjectID  [4]byte
	RightsRaw uint16
}

// ID decodes the big-endian object ID.
func (t Trustee) ID() uint32 {
	return decode.BigEndianUint32(t.ObjectID)
}

// Rights decodes the trustee's rights mask.
func (t Trustee) Rights() perm.Rights {
	return perm.Rights(t.RightsRaw)
}

// AvailableEntry marks a free directory-entry slot.
type AvailableEntry struct {
	ParentDirID uint32
}

// GrantListEntry holds up to 16 trustee assignments for the volume
// root.
type GrantListEntry struct {
	ParentDirID uint32
	Unk1        [5]uint32
	Trustees    [16]Trustee
	Unk2        [2]uint32
}

// VolumeInformationEntry carries the volume's own timestamps, owner,
// and trustee list.
type VolumeInformationEntry struct {
	ParentDirID uint32
	Unk1        [5]uint32
	CreateTime  decode.Stamp386
	OwnerID     [4]byte
	Unk2        [2]uint32
	ModifyTime  decode.Stamp386
	Unk3        [1]uint32
	Trustees    [8]Trustee
	Unk4        [8]uint32
}

// Owner decodes the volume information entry's big-endian owner ID.
func (v VolumeInformationEntry) Owner() uint32 {
	return decode.BigEndianUint32(v.OwnerID)
}

// FileEntry describes a regular file.
type FileEntry struct {
	ParentDirID uint32
	AttrRaw     uint32
	Unk1        [3]uint8
	NameLen     uint8
	NameRaw     [12]byte
	CreateTime  decode.Stamp386
	OwnerID     [4]byte
	Unk2        [2]uint32
	ModifyTime  decode.Stamp386
	ModifierID  [4]byte
	Length      uint32
	BlockNr     uint32
	Unk3        [1]uint32
	Trustees    [6]Trustee
	Unk4        [2]uint32
	DeleteTime  decode.Stamp386
	DeleteID    [4]byte
	Unk5        [2]uint32
	FileEntryNr uint32
	Unk6        [1]uint32
}

// Name returns the file's length-prefixed 8.3 name.
func (f FileEntry) Name() string {
	return decode.NameWithLength(f.NameRaw[:], f.NameLen)
}

// Attr decodes the file's attribute mask.
func (f FileEntry) Attr() perm.Attrs {
	return perm.Attrs(f.AttrRaw)
}

// Owner decodes the big-endian owner object ID.
func (f FileEntry) Owner() uint32 {
	return decode.BigEndianUint32(f.OwnerID)
}

// Modifier decodes the big-endian modifier object ID.
func (f FileEntry) Modifier() uint32 {
	return decode.BigEndianUint32(f.ModifierID)
}

// DirectoryEntry describes a subdirectory.
type DirectoryEntry struct {
	ParentDirID         uint32
	AttrRaw             uint32
	Unk1                [3]uint8
	NameLen             uint8
	NameRaw             [12]byte
	CreateTime          decode.Stamp386
	OwnerID             [4]byte
	Unk2                [2]uint32
	ModifyTime          decode.Stamp386
	Unk3                [1]uint32
	Trustees            [8]Trustee
	Unk4                [2]uint16
	InheritedRightsMask uint16
	SubdirIndex         uint32
	Unk5                [7]uint16
	DirectoryID         uint32
	Unk6                [2]uint16
}

// Name returns the directory's length-prefixed 8.3 name.
func (d DirectoryEntry) Name() string {
	return decode.NameWithLength(d.NameRaw[:], d.NameLen)
}

// Attr decodes the directory's attribute mask.
func (d DirectoryEntry) Attr() perm.Attrs {
	return perm.Attrs(d.AttrRaw)
}

// Owner decodes the big-endian owner object ID.
func (d DirectoryEntry) Owner() uint32 {
	return decode.BigEndianUint32(d.OwnerID)
}
