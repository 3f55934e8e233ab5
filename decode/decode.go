// Package decode holds the binary decoding primitives shared by the
// nwfs286 and nwfs386 packages: struct unpacking, fixed-length name
// trimming, and DOS-style timestamp decoding. NetWare mixes
// little-endian and big-endian fields in the same record, so the two
// endianness helpers below are kept explicit rather than folded into a
// single "read integer" routine - mixing them up silently produces
// wrong owner IDs that are hard to notice in a directory listing.
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/go-restruct/restruct"
)

// Unpack decodes data into v using the little-endian layout that every
// NWFS structure but the big-endian object-ID fields uses. Those fields
// are declared as raw byte arrays in the Go structs and converted with
// BigEndianUint32 after Unpack returns.
func Unpack(data []byte, v interface{}) error {
	if err := restruct.Unpack(data, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("decode: unpack %T: %w", v, err)
	}
	return nil
}

// BigEndianUint32 converts a 4-byte big-endian field (object IDs) to a
// uint32. Kept distinct from the little-endian struct fields Unpack
// fills in so the two byte orders can never be confused at a call site.
func BigEndianUint32(raw [4]byte) uint32 {
	return binary.BigEndian.Uint32(raw[:])
}

// LittleEndianUint16 converts a 2-byte little-endian field.
func LittleEndianUint16(raw []byte) uint16 {
	return binary.LittleEndian.Uint16(raw)
}

// LittleEndianUint32 converts a 4-byte little-endian field. Used for
// ad hoc header fields (magic-prefixed counts) read outside of a
// restruct-tagged struct.
func LittleEndianUint32(raw []byte) uint32 {
	return binary.LittleEndian.Uint32(raw)
}

// BigEndianUint16 converts a 2-byte big-endian field. NWFS286
// directory entries store parent_dir big-endian while every other
// numeric field in the same record is little-endian.
func BigEndianUint16(raw []byte) uint16 {
	return binary.BigEndian.Uint16(raw)
}

// Hexify renders raw bytes as lowercase hex, used to compare and report
// fixed magic values (MBR signature, HOTFIX/MIRROR/volume tags).
func Hexify(raw []byte) string {
	return fmt.Sprintf("%x", raw)
}

// AsciizToString trims a fixed-width field at the first NUL byte (or at
// the field's end) and returns the remainder as a string; NetWare pads
// unused name bytes with NUL or spaces.
func AsciizToString(raw []byte) string {
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	return string(raw[:end])
}

// NameWithLength decodes a fixed-width name field that carries an
// explicit length prefix elsewhere in the record (volume names, 386
// directory-entry names): only the first length bytes of raw are
// significant, the rest is padding of unspecified content.
func NameWithLength(raw []byte, length uint8) string {
	n := int(length)
	if n > len(raw) {
		n = len(raw)
	}
	return string(raw[:n])
}
