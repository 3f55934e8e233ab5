package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nwfs-go/nwfs/decode"
	"github.com/nwfs-go/nwfs/vfs"
)

// fakeVolume mirrors vfs_test.go's double, kept separate since it lives
// in a different package and shell only needs the read path.
type fakeVolume struct {
	children map[uint32][]vfs.Node
	content  map[uint32][]byte
}

func (f *fakeVolume) Name() string   { return "FAKE" }
func (f *fakeVolume) RootID() uint32 { return 0 }
func (f *fakeVolume) Children(dirID uint32) ([]vfs.Node, error) {
	return f.children[dirID], nil
}
func (f *fakeVolume) ReadFile(n vfs.Node) ([]byte, error) {
	return f.content[n.ID], nil
}

func buildFakeVolume() *fakeVolume {
	v := &fakeVolume{children: map[uint32][]vfs.Node{}, content: map[uint32][]byte{}}
	v.children[0] = []vfs.Node{
		{ID: 1, ParentID: 0, Name: "LOGIN", Kind: vfs.KindDirectory, Modified: decode.Stamp386(0)},
		{ID: 2, ParentID: 0, Name: "README.TXT", Kind: vfs.KindFile, Size: 7, Modified: decode.Stamp386(0)},
	}
	v.children[1] = []vfs.Node{
		{ID: 3, ParentID: 1, Name: "LOGIN.EXE", Kind: vfs.KindFile, Size: 6, Modified: decode.Stamp386(0)},
	}
	v.content[2] = []byte("readme!")
	v.content[3] = []byte("binary")
	return v
}

func TestShellDirAndCat(t *testing.T) {
	vol := buildFakeVolume()
	var out bytes.Buffer
	sh := New(vol, &out)
	if err := sh.Run(strings.NewReader("dir\ncat README.TXT\nexit\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "README.TXT") {
		t.Errorf("dir output missing README.TXT: %q", text)
	}
	if !strings.Contains(text, "readme!") {
		t.Errorf("cat output missing file content: %q", text)
	}
}

func TestShellCdIntoSubdirectory(t *testing.T) {
	vol := buildFakeVolume()
	var out bytes.Buffer
	sh := New(vol, &out)
	if err := sh.Run(strings.NewReader("cd LOGIN\ncat LOGIN.EXE\ncd ..\nexit\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "binary") {
		t.Errorf("expected LOGIN.EXE content in output: %q", out.String())
	}
}

func TestShellCdUnknownDirectory(t *testing.T) {
	vol := buildFakeVolume()
	var out bytes.Buffer
	sh := New(vol, &out)
	if err := sh.Run(strings.NewReader("cd NOPE\nexit\n")); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "directory not found") {
		t.Errorf("expected 'directory not found', got %q", out.String())
	}
}
