package perm

import "testing"

func TestAttrsString(t *testing.T) {
	cases := []struct {
		a    Attrs
		want string
	}{
		{0, "Rw-------------------"},
		{AttrReadOnly | AttrHidden | AttrSystem, "Ro---HSy-------------"},
		{AttrDirectory, "Rw-------------------"},
	}
	for _, c := range cases {
		if got := c.a.String(); got != c.want {
			t.Errorf("Attrs(%#x).String() = %q, want %q", uint32(c.a), got, c.want)
		}
	}
}

func TestAttrsIsDirectory(t *testing.T) {
	if !(AttrDirectory | AttrArchive).IsDirectory() {
		t.Error("expected directory bit to be recognized")
	}
	if AttrArchive.IsDirectory() {
		t.Error("archive-only mask should not be a directory")
	}
}

func TestRightsGrantsSupervisor(t *testing.T) {
	r := RightSupervisor
	if !r.Grants(RightWrite) || !r.Grants(RightAccessControl) {
		t.Error("supervisor should grant every other right")
	}
}

func TestRightsString(t *testing.T) {
	r := RightRead | RightFilescan
	want := " R    F "
	if got := r.String(); got != want {
		t.Errorf("Rights.String() = %q, want %q", got, want)
	}
}
