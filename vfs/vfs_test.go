package vfs

import (
	"errors"
	"testing"
)

// fakeVolume is a minimal in-memory VolumeHandle used to exercise path
// resolution without mounting a real image.
type fakeVolume struct {
	children map[uint32][]Node
	content  map[uint32][]byte
}

func (f *fakeVolume) Name() string   { return "FAKE" }
func (f *fakeVolume) RootID() uint32 { return 0 }
func (f *fakeVolume) Children(dirID uint32) ([]Node, error) {
	return f.children[dirID], nil
}
func (f *fakeVolume) ReadFile(n Node) ([]byte, error) {
	if n.IsDirectory() {
		return nil, ErrIsADirectory
	}
	return f.content[n.ID], nil
}

// buildFakeVolume builds: /LOGIN (dir, id=1), /LOGIN/LOGIN.EXE (file,
// id=2), /README.TXT (file, id=3), and two duplicate-named files
// /DUP.TXT (id=4, id=5) to exercise #N disambiguation.
func buildFakeVolume() *fakeVolume {
	v := &fakeVolume{children: map[uint32][]Node{}, content: map[uint32][]byte{}}
	v.children[0] = []Node{
		{ID: 1, ParentID: 0, Name: "LOGIN", Kind: KindDirectory},
		{ID: 3, ParentID: 0, Name: "README.TXT", Kind: KindFile},
		{ID: 4, ParentID: 0, Name: "DUP.TXT", Kind: KindFile},
		{ID: 5, ParentID: 0, Name: "DUP.TXT", Kind: KindFile},
		{ID: 6, ParentID: 0, Name: "OLD.TXT", Kind: KindFile, Deleted: true},
	}
	v.children[1] = []Node{
		{ID: 2, ParentID: 1, Name: "LOGIN.EXE", Kind: KindFile},
	}
	v.content[2] = []byte("binary")
	v.content[3] = []byte("readme")
	v.content[4] = []byte("first")
	v.content[5] = []byte("second")
	return v
}

func TestResolvePathNested(t *testing.T) {
	v := buildFakeVolume()
	chain, node, err := ResolvePath(v, "/login/login.exe")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if node.ID != 2 || node.Kind != KindFile {
		t.Errorf("node = %+v, want LOGIN.EXE file", node)
	}
	if len(chain) != 2 || chain[0] != 0 || chain[1] != 1 {
		t.Errorf("chain = %v, want [0 1]", chain)
	}
}

func TestResolvePathDotDot(t *testing.T) {
	v := buildFakeVolume()
	chain, _, err := ResolvePath(v, "/LOGIN/../README.TXT")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if len(chain) != 1 || chain[0] != 0 {
		t.Errorf("chain = %v, want [0]", chain)
	}
}

func TestResolvePathNotFound(t *testing.T) {
	v := buildFakeVolume()
	_, _, err := ResolvePath(v, "/NOPE.TXT")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolvePathFileNotADirectory(t *testing.T) {
	v := buildFakeVolume()
	_, _, err := ResolvePath(v, "/README.TXT/EXTRA")
	if !errors.Is(err, ErrNotADirectory) {
		t.Errorf("expected ErrNotADirectory, got %v", err)
	}
}

func TestResolvePathDeletedSkipped(t *testing.T) {
	v := buildFakeVolume()
	_, _, err := ResolvePath(v, "/OLD.TXT")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected deleted file to be invisible, got %v", err)
	}
}

func TestResolvePathDisambiguation(t *testing.T) {
	v := buildFakeVolume()
	_, node, err := ResolvePath(v, "/DUP.TXT#2")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if node.ID != 5 {
		t.Errorf("node.ID = %d, want 5 (second DUP.TXT)", node.ID)
	}
}

func TestReadAllRejectsDirectory(t *testing.T) {
	v := buildFakeVolume()
	_, node, err := ResolvePath(v, "/LOGIN")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	_, err = ReadAll(v, node)
	if !errors.Is(err, ErrIsADirectory) {
		t.Errorf("expected ErrIsADirectory, got %v", err)
	}
}

func TestReadAllFile(t *testing.T) {
	v := buildFakeVolume()
	_, node, err := ResolvePath(v, "/LOGIN/LOGIN.EXE")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	data, err := ReadAll(v, node)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "binary" {
		t.Errorf("ReadAll = %q, want binary", data)
	}
}
