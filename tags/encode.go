package tags

import (
	"github.com/audiotag/tagwire/errors"
	"github.com/audiotag/tagwire/msgpack"
)

// EncodeSize returns the exact number of bytes Encode will produce for td.
// It walks the same field table with the same encoding rules, so the
// returned size is always equal to the bytes written by a subsequent
// Encode of the same record.
func EncodeSize(td *TagData) (int, error) {
	if td == nil {
		return 0, errors.InvalidInput(errors.PhaseEncode, "nil record")
	}

	n := msgpack.MapHeaderSize(len(encodeOrder))
	for i := range encodeOrder {
		f := &encodeOrder[i]
		n += msgpack.StringSize(f.key)
		if f.kind == fieldString {
			n += msgpack.StringSize(*f.str(td))
		} else {
			n += msgpack.UintSize(uint64(*f.num(td)))
		}
	}
	return n, nil
}

// Encode serializes td into dst as a fixed-order 16-entry map and returns
// the number of bytes written. The output is a single top-level map value
// with no trailing bytes. Fails with a range error when dst is too small;
// use EncodeSize to size dst exactly.
func Encode(td *TagData, dst []byte) (int, error) {
	if td == nil {
		return 0, errors.InvalidInput(errors.PhaseEncode, "nil record")
	}
	if len(dst) == 0 {
		return 0, errors.InvalidInput(errors.PhaseEncode, "nil or empty destination")
	}

	w := msgpack.NewWriter(dst)
	if err := w.WriteMapHeader(len(encodeOrder)); err != nil {
		return 0, err
	}

	for i := range encodeOrder {
		f := &encodeOrder[i]
		if err := w.WriteString(f.key); err != nil {
			return 0, err
		}
		if f.kind == fieldString {
			if err := w.WriteString(*f.str(td)); err != nil {
				return 0, err
			}
		} else {
			if err := w.WriteUint(uint64(*f.num(td))); err != nil {
				return 0, err
			}
		}
	}

	return w.Len(), nil
}

// AppendEncode appends the encoded record to dst and returns the extended
// slice, sizing the destination with EncodeSize first.
func AppendEncode(td *TagData, dst []byte) ([]byte, error) {
	n, err := EncodeSize(td)
	if err != nil {
		return dst, err
	}

	off := len(dst)
	if cap(dst)-off < n {
		grown := make([]byte, off, off+n)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:off+n]

	if _, err := Encode(td, dst[off:]); err != nil {
		return dst[:off], err
	}
	return dst, nil
}
