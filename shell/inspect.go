package shell

import (
	"fmt"
	"io"
)

// inspectable is implemented by both volume adapters to surface their
// version-specific structural metadata - the fields the original
// decoder's nwfs286::inspect dumped directly to stdout.
type inspectable interface {
	Inspect() string
}

// Inspect writes a structural dump of vol to out: its own metadata
// header (if the concrete adapter implements it) followed by a
// recursive listing of every directory and file in the volume.
func Inspect(vol VolumeHandle, out io.Writer) error {
	if ins, ok := vol.(inspectable); ok {
		fmt.Fprintln(out, ins.Inspect())
	}
	return inspectDir(vol, out, vol.RootID(), "/")
}

func inspectDir(vol VolumeHandle, out io.Writer, dirID uint32, path string) error {
	children, err := vol.Children(dirID)
	if err != nil {
		return fmt.Errorf("shell: inspect %s: %w", path, err)
	}
	for _, c := range children {
		deleted := ""
		if c.Deleted {
			deleted = " (deleted)"
		}
		fmt.Fprintf(out, "%s%s  id=%d parent=%d attr=%s size=%d modified=%s%s\n",
			path, c.Name, c.ID, c.ParentID, c.Attrs, c.Size, c.Modified.String(), deleted)
		if c.IsDirectory() {
			if err := inspectDir(vol, out, c.ID, path+c.Name+"/"); err != nil {
				return err
			}
		}
	}
	return nil
}
