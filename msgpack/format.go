package msgpack

// MessagePack format bytes. Only the families the tag codec produces are
// written; Skip understands the full set.
const (
	formatNil      = 0xc0
	formatFalse    = 0xc2
	formatTrue     = 0xc3
	formatBin8     = 0xc4
	formatBin16    = 0xc5
	formatBin32    = 0xc6
	formatExt8     = 0xc7
	formatExt16    = 0xc8
	formatExt32    = 0xc9
	formatFlt32    = 0xca
	formatFlt64    = 0xcb
	formatUint8    = 0xcc
	formatUint16   = 0xcd
	formatUint32   = 0xce
	formatUint64   = 0xcf
	formatInt8     = 0xd0
	formatInt16    = 0xd1
	formatInt32    = 0xd2
	formatInt64    = 0xd3
	formatFixext1  = 0xd4
	formatFixext2  = 0xd5
	formatFixext4  = 0xd6
	formatFixext8  = 0xd7
	formatFixext16 = 0xd8
	formatStr8     = 0xd9
	formatStr16    = 0xda
	formatStr32    = 0xdb
	formatArr16    = 0xdc
	formatArr32    = 0xdd
	formatMap16    = 0xde
	formatMap32    = 0xdf

	fixmapMask = 0x80 // 1000xxxx, up to 15 entries
	fixarrMask = 0x90 // 1001xxxx, up to 15 elements
	fixstrMask = 0xa0 // 101xxxxx, up to 31 bytes
)

func isPositiveFixint(b byte) bool { return b <= 0x7f }
func isNegativeFixint(b byte) bool { return b >= 0xe0 }
func isFixmap(b byte) bool         { return b&0xf0 == fixmapMask }
func isFixarray(b byte) bool       { return b&0xf0 == fixarrMask }
func isFixstr(b byte) bool         { return b&0xe0 == fixstrMask }

// familyName returns a human-readable family for a format byte, used in
// type mismatch errors.
func familyName(b byte) string {
	switch {
	case isPositiveFixint(b), b >= formatUint8 && b <= formatUint64:
		return "uint"
	case isNegativeFixint(b), b >= formatInt8 && b <= formatInt64:
		return "int"
	case isFixstr(b), b >= formatStr8 && b <= formatStr32:
		return "str"
	case isFixmap(b), b == formatMap16, b == formatMap32:
		return "map"
	case isFixarray(b), b == formatArr16, b == formatArr32:
		return "array"
	case b >= formatBin8 && b <= formatBin32:
		return "bin"
	case b == formatFlt32, b == formatFlt64:
		return "float"
	case b == formatNil:
		return "nil"
	case b == formatFalse, b == formatTrue:
		return "bool"
	case b >= formatExt8 && b <= formatExt32, b >= formatFixext1 && b <= formatFixext16:
		return "ext"
	default:
		return "reserved"
	}
}
