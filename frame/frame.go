package frame

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/audiotag/tagwire/errors"
)

const (
	// HeaderSize is the length prefix width in bytes.
	HeaderSize = 4

	// DefaultMaxFrameSize bounds ReadFrame when the caller passes no limit.
	DefaultMaxFrameSize = 16 << 20
)

// AppendFrame appends a length-prefixed frame carrying payload to dst and
// returns the extended slice. The prefix is a 4-byte little-endian payload
// length; an empty payload produces a valid 4-byte frame.
func AppendFrame(dst, payload []byte) ([]byte, error) {
	if uint64(len(payload)) > math.MaxUint32 {
		return dst, errors.Range(errors.PhaseFrame, "payload of %d bytes exceeds frame limit", len(payload))
	}
	var hdr [HeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(payload)))
	dst = append(dst, hdr[:]...)
	return append(dst, payload...), nil
}

// Payload returns a view of the payload carried by an in-memory frame.
// Bytes past the declared payload are ignored so callers can slice frames
// out of a larger buffer.
func Payload(buf []byte) ([]byte, error) {
	if len(buf) < HeaderSize {
		return nil, errors.Truncated(errors.PhaseFrame, len(buf), HeaderSize-len(buf))
	}
	n := int(binary.LittleEndian.Uint32(buf))
	if len(buf)-HeaderSize < n {
		return nil, errors.Truncated(errors.PhaseFrame, len(buf), n-(len(buf)-HeaderSize))
	}
	return buf[HeaderSize : HeaderSize+n : HeaderSize+n], nil
}

// WriteFrame writes payload to w as a single length-prefixed frame.
func WriteFrame(w io.Writer, payload []byte) error {
	if uint64(len(payload)) > math.MaxUint32 {
		return errors.Range(errors.PhaseFrame, "payload of %d bytes exceeds frame limit", len(payload))
	}
	var hdr [HeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return errors.Internal(errors.PhaseFrame, "write frame header", err)
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Internal(errors.PhaseFrame, "write frame payload", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame from r and returns its payload.
// maxSize bounds the declared payload length; zero or negative selects
// DefaultMaxFrameSize. A clean EOF before any header byte is returned as
// io.EOF so callers can read frames in a loop; a header or payload cut
// short mid-frame is a truncation error.
func ReadFrame(r io.Reader, maxSize int) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFrameSize
	}

	var hdr [HeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return nil, errors.Truncated(errors.PhaseFrame, 0, HeaderSize)
		}
		return nil, errors.Internal(errors.PhaseFrame, "read frame header", err)
	}

	n := int(binary.LittleEndian.Uint32(hdr[:]))
	if n > maxSize {
		return nil, errors.Range(errors.PhaseFrame, "declared payload of %d bytes exceeds limit %d", n, maxSize)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Truncated(errors.PhaseFrame, HeaderSize, n)
		}
		return nil, errors.Internal(errors.PhaseFrame, "read frame payload", err)
	}
	return payload, nil
}
