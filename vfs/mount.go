package vfs

import (
	"fmt"

	"github.com/nwfs-go/nwfs/image"
	"github.com/nwfs-go/nwfs/partition"
)

// Mount dispatches to the NWFS286 or NWFS386 adapter based on p.Version
// and returns the resulting volume behind the version-neutral
// VolumeHandle. volumeName is only consulted for NWFS386, which names
// its volumes explicitly; NWFS286 has exactly one volume per partition.
func Mount(r image.Reader, p partition.Partition, volumeName string) (VolumeHandle, error) {
	switch p.Version {
	case partition.NWFS386:
		return Mount386(r, p.Offset(), volumeName)
	case partition.NWFS286:
		return Mount286(r, p.Offset())
	default:
		return nil, fmt.Errorf("vfs: unsupported partition version %v", p.Version)
	}
}
