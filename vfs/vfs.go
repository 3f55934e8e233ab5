// Package vfs presents NWFS286 and NWFS386 volumes behind a single,
// version-neutral browsing API: resolve a path, list a directory, read
// a file's metadata or content. Each handle covers the one volume named
// at mount time; there is no operation that lists a partition's
// volumes. It owns no on-disk knowledge of its own - every read
// goes through a VolumeHandle adapter (adapter286.go, adapter386.go)
// that does the version-specific work and returns the same Node shape.
package vfs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nwfs-go/nwfs/decode"
	"github.com/nwfs-go/nwfs/perm"
)

// Kind distinguishes a file entry from a directory entry.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// Trustee is an (object-ID, rights-mask) grant attached to a node.
// NWFS286 has no trustee concept; its nodes always report a nil slice.
type Trustee struct {
	ObjectID uint32
	Rights   perm.Rights
}

// Node is one directory-entry-pool slot, rendered the same way
// regardless of which NWFS version produced it.
type Node struct {
	ID       uint32
	ParentID uint32
	Name     string
	Kind     Kind
	Size     uint64
	Modified decode.Timestamp
	Owner    string
	Modifier string
	Attrs    string
	Deleted  bool
	Trustees []Trustee

	// native carries the version-specific handle needed to read this
	// node's content back through its owning VolumeHandle; callers never
	// inspect it directly.
	native interface{}
}

func (n Node) IsDirectory() bool { return n.Kind == KindDirectory }

// VolumeHandle is the capability set every mounted volume exposes,
// regardless of version: NWFS286 and NWFS386 are two concrete
// implementations behind this one interface rather than a shared base
// type, since their addressing and directory representations have
// almost nothing in common below this line.
type VolumeHandle interface {
	Name() string
	RootID() uint32
	Children(dirID uint32) ([]Node, error)
	ReadFile(n Node) ([]byte, error)
}

var (
	// ErrNotFound is returned when a path component matches no child.
	ErrNotFound = errors.New("vfs: not found")
	// ErrNotADirectory is returned when a non-terminal path component
	// names a file.
	ErrNotADirectory = errors.New("vfs: not a directory")
	// ErrIsADirectory is returned when ReadFile is asked to read a
	// directory node.
	ErrIsADirectory = errors.New("vfs: is a directory")
)

// disambiguationSuffix strips a trailing "#N" used to pick the Nth
// (1-based) duplicate among same-named siblings - the on-disk format
// permits name collisions within a parent and the index preserves
// insertion order, so "#2" means "the second LOGIN.EXE in this
// directory" rather than any particular entry ID.
func disambiguationSuffix(component string) (name string, index int, ok bool) {
	hash := strings.LastIndexByte(component, '#')
	if hash < 0 {
		return component, 0, false
	}
	n, err := strconv.Atoi(component[hash+1:])
	if err != nil || n < 1 {
		return component, 0, false
	}
	return component[:hash], n, true
}

func lookupChild(vh VolumeHandle, dirID uint32, component string) (Node, error) {
	children, err := vh.Children(dirID)
	if err != nil {
		return Node{}, err
	}
	name, wantIndex, disambiguated := disambiguationSuffix(component)

	seen := 0
	for _, c := range children {
		if c.Deleted {
			continue
		}
		if !strings.EqualFold(c.Name, name) {
			continue
		}
		seen++
		if !disambiguated || seen == wantIndex {
			return c, nil
		}
	}
	return Node{}, fmt.Errorf("%w: %q", ErrNotFound, component)
}

// ResolvePath walks path (absolute, "/"-separated, optionally starting
// at "/") from the volume root and returns the chain of directory IDs
// from root to the last directory traversed (the resolved node itself
// when it is a directory, otherwise its parent), plus the resolved
// node; an empty path resolves to the root directory.
func ResolvePath(vh VolumeHandle, path string) (dirChain []uint32, node Node, err error) {
	dirChain = []uint32{vh.RootID()}
	path = strings.Trim(path, "/")
	if path == "" {
		return dirChain, Node{ID: vh.RootID(), Kind: KindDirectory}, nil
	}

	node = Node{ID: dirChain[0], Kind: KindDirectory}
	components := strings.Split(path, "/")
	for _, component := range components {
		switch component {
		case "", ".":
			continue
		case "..":
			if len(dirChain) > 1 {
				dirChain = dirChain[:len(dirChain)-1]
			}
			node = Node{ID: dirChain[len(dirChain)-1], Kind: KindDirectory}
			continue
		}
		if !node.IsDirectory() {
			return nil, Node{}, fmt.Errorf("%w: %q", ErrNotADirectory, node.Name)
		}
		current := dirChain[len(dirChain)-1]
		c, lookupErr := lookupChild(vh, current, component)
		if lookupErr != nil {
			return nil, Node{}, lookupErr
		}
		if c.IsDirectory() {
			dirChain = append(dirChain, c.ID)
		}
		node = c
	}
	return dirChain, node, nil
}

// ReadAll reads a file node's entire content.
func ReadAll(vh VolumeHandle, n Node) ([]byte, error) {
	if n.IsDirectory() {
		return nil, fmt.Errorf("%w: %q", ErrIsADirectory, n.Name)
	}
	return vh.ReadFile(n)
}
