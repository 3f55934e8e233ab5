package vfs

import (
	"fmt"
	"math"

	"github.com/nwfs-go/nwfs/nwfs386"
)

// volume386 adapts an *nwfs386.Volume + *nwfs386.Directory pair to
// VolumeHandle.
type volume386 struct {
	vol *nwfs386.Volume
	dir *nwfs386.Directory
}

// Mount386 mounts and fully indexes an NWFS386 volume, returning the
// version-neutral handle vfs callers use.
func Mount386(r volume386Reader, base int64, name string) (VolumeHandle, error) {
	vol, err := nwfs386.Mount(r, base, name)
	if err != nil {
		return nil, err
	}
	dir, err := nwfs386.ReadDirectory(vol)
	if err != nil {
		return nil, fmt.Errorf("vfs: read nwfs386 directory: %w", err)
	}
	return &volume386{vol: vol, dir: dir}, nil
}

// volume386Reader is the subset of image.Reader nwfs386.Mount needs;
// declared locally so this file doesn't have to import image just to
// name its Reader type in Mount386's signature.
type volume386Reader interface {
	ReadAt(offset int64, length int) ([]byte, error)
	Size() int64
	Close() error
}

func (v *volume386) Name() string   { return v.vol.Name }
func (v *volume386) RootID() uint32 { return nwfs386.RootDirectoryID }

func objectID386(id uint32) string {
	if id == math.MaxUint32 {
		return "?"
	}
	return fmt.Sprintf("%08X", id)
}

// trustees386 converts a fixed NWFS386 trustee array to the
// version-neutral Trustee slice, in on-disk order. Unused slots
// (object ID 0) are carried through as-is rather than filtered out.
func trustees386(raw []nwfs386.Trustee) []Trustee {
	out := make([]Trustee, len(raw))
	for i, t := range raw {
		out[i] = Trustee{ObjectID: t.ID(), Rights: t.Rights()}
	}
	return out
}

func nodeFrom386(e nwfs386.Entry) (Node, bool) {
	switch {
	case e.File != nil:
		f := e.File
		return Node{
			ID:       f.FileEntryNr,
			ParentID: f.ParentDirID,
			Name:     f.Name(),
			Kind:     KindFile,
			Size:     uint64(f.Length),
			Modified: f.ModifyTime,
			Owner:    objectID386(f.Owner()),
			Modifier: objectID386(f.Modifier()),
			Attrs:    f.Attr().String(),
			Deleted:  f.DeleteTime.Valid(),
			Trustees: trustees386(f.Trustees[:]),
			native:   f,
		}, true
	case e.Directory != nil:
		d := e.Directory
		return Node{
			ID:       d.DirectoryID,
			ParentID: d.ParentDirID,
			Name:     d.Name(),
			Kind:     KindDirectory,
			Modified: d.ModifyTime,
			Owner:    objectID386(d.Owner()),
			Attrs:    d.Attr().String(),
			Trustees: trustees386(d.Trustees[:]),
			native:   d,
		}, true
	default:
		return Node{}, false
	}
}

func (v *volume386) Children(dirID uint32) ([]Node, error) {
	entries := v.dir.Children(dirID)
	out := make([]Node, 0, len(entries))
	for _, e := range entries {
		if n, ok := nodeFrom386(e); ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// Inspect renders the volume's structural metadata - hotfix/mirror tags,
// block size, segment count - for the diagnostic "inspect" command.
func (v *volume386) Inspect() string {
	blockSize := v.vol.BlockSize()
	return fmt.Sprintf("nwfs386 volume %q: hotfix=%q mirror=%q block_size=%d root_block=%d",
		v.vol.Name, v.vol.Hotfix.TagString(), v.vol.Mirror.TagString(), blockSize, v.vol.RootDirBlock())
}

func (v *volume386) ReadFile(n Node) ([]byte, error) {
	f, ok := n.native.(*nwfs386.FileEntry)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrIsADirectory, n.Name)
	}
	return v.vol.ReadChain(f.BlockNr, f.Length)
}
