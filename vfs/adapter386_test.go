package vfs

import (
	"testing"

	"github.com/nwfs-go/nwfs/nwfs386"
	"github.com/nwfs-go/nwfs/perm"
)

func TestTrustees386(t *testing.T) {
	raw := []nwfs386.Trustee{
		{ObjectID: [4]byte{0, 0, 0, 1}, RightsRaw: uint16(perm.RightRead | perm.RightWrite)},
		{ObjectID: [4]byte{0, 0, 0, 0}, RightsRaw: 0},
	}
	got := trustees386(raw)
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].ObjectID != 1 {
		t.Errorf("got[0].ObjectID = %d, want 1", got[0].ObjectID)
	}
	if !got[0].Rights.Grants(perm.RightWrite) {
		t.Errorf("got[0].Rights should grant write")
	}
	if got[1].ObjectID != 0 {
		t.Errorf("unused trustee slot should pass through as object ID 0, got %d", got[1].ObjectID)
	}
}
