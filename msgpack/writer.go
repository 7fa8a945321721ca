package msgpack

import (
	"encoding/binary"
	"math"

	"github.com/audiotag/tagwire/errors"
)

// Writer encodes MessagePack values into a fixed destination buffer.
// It never grows the buffer: a write that would overflow the destination
// returns a range error and leaves the writer unchanged.
type Writer struct {
	buf []byte
	n   int
}

// NewWriter creates a writer over dst. Written bytes occupy dst[:Len()].
func NewWriter(dst []byte) *Writer {
	return &Writer{buf: dst}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.n
}

func (w *Writer) ensure(n int) error {
	if w.n+n > len(w.buf) {
		return errors.Range(errors.PhaseEncode, "destination too small: need %d bytes at offset %d, have %d", n, w.n, len(w.buf)-w.n)
	}
	return nil
}

// WriteMapHeader writes a map header for n key-value pairs.
func (w *Writer) WriteMapHeader(n int) error {
	switch {
	case n < 0 || uint64(n) > math.MaxUint32:
		return errors.Range(errors.PhaseEncode, "map length %d out of range", n)
	case n < 16:
		if err := w.ensure(1); err != nil {
			return err
		}
		w.buf[w.n] = fixmapMask | byte(n)
		w.n++
	case n <= math.MaxUint16:
		if err := w.ensure(3); err != nil {
			return err
		}
		w.buf[w.n] = formatMap16
		binary.BigEndian.PutUint16(w.buf[w.n+1:], uint16(n))
		w.n += 3
	default:
		if err := w.ensure(5); err != nil {
			return err
		}
		w.buf[w.n] = formatMap32
		binary.BigEndian.PutUint32(w.buf[w.n+1:], uint32(n))
		w.n += 5
	}
	return nil
}

// WriteString writes a UTF-8 string in its smallest encoding.
func (w *Writer) WriteString(s string) error {
	n := len(s)
	switch {
	case uint64(n) > math.MaxUint32:
		return errors.Range(errors.PhaseEncode, "string length %d out of range", n)
	case n < 32:
		if err := w.ensure(1 + n); err != nil {
			return err
		}
		w.buf[w.n] = fixstrMask | byte(n)
		w.n++
	case n <= math.MaxUint8:
		if err := w.ensure(2 + n); err != nil {
			return err
		}
		w.buf[w.n] = formatStr8
		w.buf[w.n+1] = byte(n)
		w.n += 2
	case n <= math.MaxUint16:
		if err := w.ensure(3 + n); err != nil {
			return err
		}
		w.buf[w.n] = formatStr16
		binary.BigEndian.PutUint16(w.buf[w.n+1:], uint16(n))
		w.n += 3
	default:
		if err := w.ensure(5 + n); err != nil {
			return err
		}
		w.buf[w.n] = formatStr32
		binary.BigEndian.PutUint32(w.buf[w.n+1:], uint32(n))
		w.n += 5
	}
	w.n += copy(w.buf[w.n:], s)
	return nil
}

// WriteUint writes an unsigned integer in its smallest encoding.
func (w *Writer) WriteUint(v uint64) error {
	switch {
	case v <= 0x7f:
		if err := w.ensure(1); err != nil {
			return err
		}
		w.buf[w.n] = byte(v)
		w.n++
	case v <= math.MaxUint8:
		if err := w.ensure(2); err != nil {
			return err
		}
		w.buf[w.n] = formatUint8
		w.buf[w.n+1] = byte(v)
		w.n += 2
	case v <= math.MaxUint16:
		if err := w.ensure(3); err != nil {
			return err
		}
		w.buf[w.n] = formatUint16
		binary.BigEndian.PutUint16(w.buf[w.n+1:], uint16(v))
		w.n += 3
	case v <= math.MaxUint32:
		if err := w.ensure(5); err != nil {
			return err
		}
		w.buf[w.n] = formatUint32
		binary.BigEndian.PutUint32(w.buf[w.n+1:], uint32(v))
		w.n += 5
	default:
		if err := w.ensure(9); err != nil {
			return err
		}
		w.buf[w.n] = formatUint64
		binary.BigEndian.PutUint64(w.buf[w.n+1:], v)
		w.n += 9
	}
	return nil
}

// Size helpers mirror the Writer encodings exactly, so a caller can
// measure first and allocate the destination once.

// MapHeaderSize returns the encoded size of a map header for n pairs.
func MapHeaderSize(n int) int {
	switch {
	case n < 16:
		return 1
	case n <= math.MaxUint16:
		return 3
	default:
		return 5
	}
}

// StringSize returns the encoded size of s.
func StringSize(s string) int {
	n := len(s)
	switch {
	case n < 32:
		return 1 + n
	case n <= math.MaxUint8:
		return 2 + n
	case n <= math.MaxUint16:
		return 3 + n
	default:
		return 5 + n
	}
}

// UintSize returns the encoded size of v.
func UintSize(v uint64) int {
	switch {
	case v <= 0x7f:
		return 1
	case v <= math.MaxUint8:
		return 2
	case v <= math.MaxUint16:
		return 3
	case v <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}
