// Package perm renders NWFS386 attribute flags and trustee rights
// masks letter-coded for a directory listing. Both bit layouts are
// shared between file and directory entries, so they live outside the
// nwfs386 package proper.
package perm

// Rights is a 16-bit trustee rights mask.
type Rights uint16

const (
	RightRead          Rights = 0x1
	RightWrite         Rights = 0x2
	RightCreate        Rights = 0x8
	RightErase         Rights = 0x10
	RightAccessControl Rights = 0x20
	RightFilescan      Rights = 0x40
	RightModify        Rights = 0x80
	RightSupervisor    Rights = 0x100
)

func (r Rights) Supervisor() bool {
	return r&RightSupervisor != 0
}

func letter(set bool, ch string) string {
	if set {
		return ch
	}
	return " "
}

// String renders the raw mask as "S R W C E M F A", one column per bit
// in NetWare's listing order (not bit order). It does not fold
// Supervisor into the other columns;
// use Grants for that.
func (r Rights) String() string {
	return letter(r.Supervisor(), "S") +
		letter(r&RightRead != 0, "R") +
		letter(r&RightWrite != 0, "W") +
		letter(r&RightCreate != 0, "C") +
		letter(r&RightErase != 0, "E") +
		letter(r&RightModify != 0, "M") +
		letter(r&RightFilescan != 0, "F") +
		letter(r&RightAccessControl != 0, "A")
}

// Grants reports whether the mask confers bit. Supervisor subsumes
// every other right even when its bit is the only one set.
func (r Rights) Grants(bit Rights) bool {
	return r.Supervisor() || r&bit != 0
}
