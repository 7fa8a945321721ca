package frame

import (
	"bytes"
	stderrors "errors"
	"io"
	"testing"

	"github.com/audiotag/tagwire/errors"
)

func TestAppendFramePayloadRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"empty", []byte{}},
		{"single byte", []byte{0x42}},
		{"record-ish", bytes.Repeat([]byte{0xde, 0xad}, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			framed, err := AppendFrame(nil, tt.payload)
			if err != nil {
				t.Fatal(err)
			}
			if len(framed) != HeaderSize+len(tt.payload) {
				t.Fatalf("frame length %d, want %d", len(framed), HeaderSize+len(tt.payload))
			}

			got, err := Payload(framed)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Errorf("payload mismatch: got %x, want %x", got, tt.payload)
			}
		})
	}
}

func TestAppendFramePreservesPrefix(t *testing.T) {
	dst := []byte{0x01, 0x02}
	out, err := AppendFrame(dst, []byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out[:2], []byte{0x01, 0x02}) {
		t.Error("existing dst bytes overwritten")
	}
}

func TestPayloadTruncated(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"partial header", []byte{0x05, 0x00}},
		{"header only", []byte{0x05, 0x00, 0x00, 0x00}},
		{"short payload", []byte{0x05, 0x00, 0x00, 0x00, 'a', 'b'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Payload(tt.buf)
			if !stderrors.Is(err, errors.Truncated(errors.PhaseFrame, 0, 0)) {
				t.Errorf("got %v, want truncated", err)
			}
		})
	}
}

func TestPayloadIgnoresTrailingBytes(t *testing.T) {
	framed, err := AppendFrame(nil, []byte("abc"))
	if err != nil {
		t.Fatal(err)
	}
	framed = append(framed, 0xff, 0xff)

	got, err := Payload(framed)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abc" {
		t.Errorf("got %q, want %q", got, "abc")
	}
}

func TestWriteReadFrame(t *testing.T) {
	var buf bytes.Buffer
	payloads := [][]byte{
		[]byte("first"),
		{},
		bytes.Repeat([]byte{0xab}, 1000),
	}
	for _, p := range payloads {
		if err := WriteFrame(&buf, p); err != nil {
			t.Fatal(err)
		}
	}

	for i, want := range payloads {
		got, err := ReadFrame(&buf, 0)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("frame %d: got %x, want %x", i, got, want)
		}
	}

	if _, err := ReadFrame(&buf, 0); err != io.EOF {
		t.Errorf("after last frame: got %v, want io.EOF", err)
	}
}

func TestReadFrameOversize(t *testing.T) {
	framed, err := AppendFrame(nil, bytes.Repeat([]byte{0x01}, 100))
	if err != nil {
		t.Fatal(err)
	}

	_, err = ReadFrame(bytes.NewReader(framed), 99)
	if !stderrors.Is(err, errors.Range(errors.PhaseFrame, "")) {
		t.Errorf("got %v, want range", err)
	}
}

func TestReadFrameTruncated(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"partial header", []byte{0x05, 0x00}},
		{"missing payload", []byte{0x05, 0x00, 0x00, 0x00}},
		{"short payload", []byte{0x05, 0x00, 0x00, 0x00, 'x'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrame(bytes.NewReader(tt.buf), 0)
			if !stderrors.Is(err, errors.Truncated(errors.PhaseFrame, 0, 0)) {
				t.Errorf("got %v, want truncated", err)
			}
		})
	}
}

func TestBufferPoolReuse(t *testing.T) {
	p := NewBufferPool(4)

	a := p.Acquire(100)
	if len(a) != 100 {
		t.Fatalf("len = %d, want 100", len(a))
	}
	if cap(a) != 128 {
		t.Errorf("cap = %d, want next power of two 128", cap(a))
	}
	p.Release(a)

	// A smaller follow-up request must reuse the freed buffer.
	b := p.Acquire(64)
	if &a[0] != &b[0] {
		t.Error("freed buffer not reused for smaller request")
	}

	s := p.Stats()
	if s.Buffers != 1 || s.InUse != 1 || s.TotalBytes != 128 {
		t.Errorf("stats = %+v", s)
	}
}

func TestBufferPoolOverflowUnpooled(t *testing.T) {
	p := NewBufferPool(1)

	a := p.Acquire(16)
	b := p.Acquire(16)
	if &a[0] == &b[0] {
		t.Fatal("two live acquisitions share a buffer")
	}

	// b was allocated past the pool bound; releasing it changes nothing.
	p.Release(b)
	s := p.Stats()
	if s.Buffers != 1 || s.InUse != 1 {
		t.Errorf("stats = %+v, want 1 owned buffer still in use", s)
	}
}

func TestBufferPoolClear(t *testing.T) {
	p := NewBufferPool(4)
	a := p.Acquire(10)
	b := p.Acquire(20)
	p.Release(b)

	p.Clear()
	s := p.Stats()
	if s.Buffers != 1 || s.InUse != 1 {
		t.Errorf("stats after clear = %+v, want only the live buffer", s)
	}
	if s.TotalBytes != cap(a) {
		t.Errorf("TotalBytes = %d, want %d", s.TotalBytes, cap(a))
	}

	p.Release(a)
	p.Clear()
	if s := p.Stats(); s.Buffers != 0 || s.TotalBytes != 0 {
		t.Errorf("stats after full clear = %+v", s)
	}
}

func TestBufferPoolInvalidAcquire(t *testing.T) {
	p := NewBufferPool(0)
	if buf := p.Acquire(0); buf != nil {
		t.Error("Acquire(0) should return nil")
	}
	if buf := p.Acquire(-5); buf != nil {
		t.Error("Acquire(-5) should return nil")
	}
	p.Release(nil) // must not panic
}

func TestCeilPow2(t *testing.T) {
	tests := []struct{ in, want int }{
		{1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8},
		{127, 128}, {128, 128}, {129, 256}, {1 << 20, 1 << 20},
	}
	for _, tt := range tests {
		if got := ceilPow2(tt.in); got != tt.want {
			t.Errorf("ceilPow2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
