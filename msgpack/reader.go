package msgpack

import (
	"encoding/binary"

	"github.com/audiotag/tagwire/errors"
)

// Reader decodes MessagePack values from a byte slice. The only state is
// the read cursor; an error leaves the cursor where the fault was detected
// and the caller is expected to abandon the decode.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a reader over buf. The reader does not copy buf;
// returned string views alias it.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the current cursor position.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return errors.Truncated(errors.PhaseDecode, r.pos, r.pos+n-len(r.buf))
	}
	return nil
}

func (r *Reader) readByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *Reader) readU16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) readU32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) readU64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadMapHeader reads a map header and returns the entry count.
func (r *Reader) ReadMapHeader() (int, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	switch {
	case isFixmap(b):
		return int(b & 0x0f), nil
	case b == formatMap16:
		n, err := r.readU16()
		return int(n), err
	case b == formatMap32:
		n, err := r.readU32()
		return int(n), err
	default:
		r.pos--
		return 0, errors.TypeMismatch(errors.PhaseDecode, nil, "map", familyName(b))
	}
}

// ReadString reads a UTF-8 string and returns a view into the input buffer.
// The view is only valid while the input buffer is; callers that need the
// bytes past the decode must copy them.
func (r *Reader) ReadString() ([]byte, error) {
	b, err := r.readByte()
	if err != nil {
		return nil, err
	}

	var n int
	switch {
	case isFixstr(b):
		n = int(b & 0x1f)
	case b == formatStr8:
		v, err := r.readByte()
		if err != nil {
			return nil, err
		}
		n = int(v)
	case b == formatStr16:
		v, err := r.readU16()
		if err != nil {
			return nil, err
		}
		n = int(v)
	case b == formatStr32:
		v, err := r.readU32()
		if err != nil {
			return nil, err
		}
		n = int(v)
	default:
		r.pos--
		return nil, errors.TypeMismatch(errors.PhaseDecode, nil, "str", familyName(b))
	}

	if err := r.need(n); err != nil {
		return nil, err
	}
	s := r.buf[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return s, nil
}

// ReadUint reads an unsigned integer of any width.
func (r *Reader) ReadUint() (uint64, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	switch {
	case isPositiveFixint(b):
		return uint64(b), nil
	case b == formatUint8:
		v, err := r.readByte()
		return uint64(v), err
	case b == formatUint16:
		v, err := r.readU16()
		return uint64(v), err
	case b == formatUint32:
		v, err := r.readU32()
		return uint64(v), err
	case b == formatUint64:
		return r.readU64()
	default:
		r.pos--
		return 0, errors.TypeMismatch(errors.PhaseDecode, nil, "uint", familyName(b))
	}
}

// Skip discards one value of any type, recursing through containers.
// Used for forward compatibility: unknown map keys are skipped, not
// rejected.
func (r *Reader) Skip() error {
	b, err := r.readByte()
	if err != nil {
		return err
	}

	switch {
	case isPositiveFixint(b), isNegativeFixint(b),
		b == formatNil, b == formatFalse, b == formatTrue:
		return nil

	case isFixstr(b):
		return r.skipBytes(int(b & 0x1f))
	case b == formatStr8, b == formatBin8:
		n, err := r.readByte()
		if err != nil {
			return err
		}
		return r.skipBytes(int(n))
	case b == formatStr16, b == formatBin16:
		n, err := r.readU16()
		if err != nil {
			return err
		}
		return r.skipBytes(int(n))
	case b == formatStr32, b == formatBin32:
		n, err := r.readU32()
		if err != nil {
			return err
		}
		return r.skipBytes(int(n))

	case b == formatUint8, b == formatInt8:
		return r.skipBytes(1)
	case b == formatUint16, b == formatInt16:
		return r.skipBytes(2)
	case b == formatUint32, b == formatInt32, b == formatFlt32:
		return r.skipBytes(4)
	case b == formatUint64, b == formatInt64, b == formatFlt64:
		return r.skipBytes(8)

	case b == formatFixext1:
		return r.skipBytes(2)
	case b == formatFixext2:
		return r.skipBytes(3)
	case b == formatFixext4:
		return r.skipBytes(5)
	case b == formatFixext8:
		return r.skipBytes(9)
	case b == formatFixext16:
		return r.skipBytes(17)
	case b == formatExt8:
		n, err := r.readByte()
		if err != nil {
			return err
		}
		return r.skipBytes(int(n) + 1)
	case b == formatExt16:
		n, err := r.readU16()
		if err != nil {
			return err
		}
		return r.skipBytes(int(n) + 1)
	case b == formatExt32:
		n, err := r.readU32()
		if err != nil {
			return err
		}
		return r.skipBytes(int(n) + 1)

	case isFixarray(b):
		return r.skipN(int(b & 0x0f))
	case b == formatArr16:
		n, err := r.readU16()
		if err != nil {
			return err
		}
		return r.skipN(int(n))
	case b == formatArr32:
		n, err := r.readU32()
		if err != nil {
			return err
		}
		return r.skipN(int(n))

	case isFixmap(b):
		return r.skipN(2 * int(b&0x0f))
	case b == formatMap16:
		n, err := r.readU16()
		if err != nil {
			return err
		}
		return r.skipN(2 * int(n))
	case b == formatMap32:
		n, err := r.readU32()
		if err != nil {
			return err
		}
		return r.skipN(2 * int(n))

	default:
		return errors.New(errors.PhaseDecode, errors.KindInternal).
			Detail("reserved format byte 0x%02x", b).
			Build()
	}
}

func (r *Reader) skipBytes(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

func (r *Reader) skipN(n int) error {
	for i := 0; i < n; i++ {
		if err := r.Skip(); err != nil {
			return err
		}
	}
	return nil
}
