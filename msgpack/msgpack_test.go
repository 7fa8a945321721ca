package msgpack_test

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/audiotag/tagwire/errors"
	"github.com/audiotag/tagwire/msgpack"
)

func TestWriteUintVectors(t *testing.T) {
	tests := []struct {
		value   uint64
		encoded []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0xcc, 0x80}},
		{255, []byte{0xcc, 0xff}},
		{256, []byte{0xcd, 0x01, 0x00}},
		{65535, []byte{0xcd, 0xff, 0xff}},
		{65536, []byte{0xce, 0x00, 0x01, 0x00, 0x00}},
		{2024, []byte{0xcd, 0x07, 0xe8}},
		{0xFFFFFFFF, []byte{0xce, 0xff, 0xff, 0xff, 0xff}},
		{0x100000000, []byte{0xcf, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		buf := make([]byte, 16)
		w := msgpack.NewWriter(buf)
		if err := w.WriteUint(tt.value); err != nil {
			t.Fatalf("WriteUint(%d): %v", tt.value, err)
		}
		if !bytes.Equal(buf[:w.Len()], tt.encoded) {
			t.Errorf("WriteUint(%d) = % x, want % x", tt.value, buf[:w.Len()], tt.encoded)
		}
		if got := msgpack.UintSize(tt.value); got != len(tt.encoded) {
			t.Errorf("UintSize(%d) = %d, want %d", tt.value, got, len(tt.encoded))
		}

		r := msgpack.NewReader(tt.encoded)
		v, err := r.ReadUint()
		if err != nil {
			t.Fatalf("ReadUint(% x): %v", tt.encoded, err)
		}
		if v != tt.value {
			t.Errorf("ReadUint(% x) = %d, want %d", tt.encoded, v, tt.value)
		}
	}
}

func TestWriteStringVectors(t *testing.T) {
	tests := []struct {
		value  string
		header []byte
	}{
		{"", []byte{0xa0}},
		{"title", []byte{0xa5}},
		{strings.Repeat("a", 31), []byte{0xbf}},
		{strings.Repeat("a", 32), []byte{0xd9, 0x20}},
		{strings.Repeat("a", 255), []byte{0xd9, 0xff}},
		{strings.Repeat("a", 256), []byte{0xda, 0x01, 0x00}},
		{"héllo", []byte{0xa6}}, // 6 UTF-8 bytes
	}

	for _, tt := range tests {
		want := append(append([]byte{}, tt.header...), tt.value...)
		buf := make([]byte, len(want))
		w := msgpack.NewWriter(buf)
		if err := w.WriteString(tt.value); err != nil {
			t.Fatalf("WriteString(%q): %v", tt.value, err)
		}
		if !bytes.Equal(buf[:w.Len()], want) {
			t.Errorf("WriteString(%.8q...) header mismatch", tt.value)
		}
		if got := msgpack.StringSize(tt.value); got != len(want) {
			t.Errorf("StringSize(%.8q...) = %d, want %d", tt.value, got, len(want))
		}

		r := msgpack.NewReader(want)
		s, err := r.ReadString()
		if err != nil {
			t.Fatalf("ReadString: %v", err)
		}
		if string(s) != tt.value {
			t.Errorf("ReadString round-trip mismatch for %.8q...", tt.value)
		}
	}
}

func TestMapHeaderVectors(t *testing.T) {
	tests := []struct {
		n       int
		encoded []byte
	}{
		{0, []byte{0x80}},
		{15, []byte{0x8f}},
		{16, []byte{0xde, 0x00, 0x10}},
		{65535, []byte{0xde, 0xff, 0xff}},
		{65536, []byte{0xdf, 0x00, 0x01, 0x00, 0x00}},
	}

	for _, tt := range tests {
		buf := make([]byte, 8)
		w := msgpack.NewWriter(buf)
		if err := w.WriteMapHeader(tt.n); err != nil {
			t.Fatalf("WriteMapHeader(%d): %v", tt.n, err)
		}
		if !bytes.Equal(buf[:w.Len()], tt.encoded) {
			t.Errorf("WriteMapHeader(%d) = % x, want % x", tt.n, buf[:w.Len()], tt.encoded)
		}
		if got := msgpack.MapHeaderSize(tt.n); got != len(tt.encoded) {
			t.Errorf("MapHeaderSize(%d) = %d, want %d", tt.n, got, len(tt.encoded))
		}

		r := msgpack.NewReader(tt.encoded)
		n, err := r.ReadMapHeader()
		if err != nil {
			t.Fatalf("ReadMapHeader: %v", err)
		}
		if n != tt.n {
			t.Errorf("ReadMapHeader = %d, want %d", n, tt.n)
		}
	}
}

func TestWriterDestinationTooSmall(t *testing.T) {
	w := msgpack.NewWriter(make([]byte, 3))
	if err := w.WriteString("too long for three bytes"); err == nil {
		t.Fatal("expected range error")
	} else if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindRange}) {
		t.Errorf("wrong error: %v", err)
	}
	// A failed write leaves the writer unchanged.
	if w.Len() != 0 {
		t.Errorf("Len after failed write = %d, want 0", w.Len())
	}
	if err := w.WriteUint(5); err != nil {
		t.Errorf("subsequent small write failed: %v", err)
	}
}

func TestReaderTypeMismatch(t *testing.T) {
	mismatch := &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindTypeMismatch}

	r := msgpack.NewReader([]byte{0xa3, 'a', 'b', 'c'}) // fixstr
	if _, err := r.ReadUint(); !stderrors.Is(err, mismatch) {
		t.Errorf("ReadUint on str: %v", err)
	}
	// Cursor is rewound so the caller can still skip or re-read the value.
	if s, err := r.ReadString(); err != nil || string(s) != "abc" {
		t.Errorf("re-read after mismatch: %q, %v", s, err)
	}

	r = msgpack.NewReader([]byte{0x07}) // fixint
	if _, err := r.ReadString(); !stderrors.Is(err, mismatch) {
		t.Errorf("ReadString on uint: %v", err)
	}

	r = msgpack.NewReader([]byte{0x07})
	if _, err := r.ReadMapHeader(); !stderrors.Is(err, mismatch) {
		t.Errorf("ReadMapHeader on uint: %v", err)
	}
}

func TestReaderTruncation(t *testing.T) {
	truncated := &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindTruncated}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"str header without payload", []byte{0xa5, 'h', 'i'}},
		{"str8 without length", []byte{0xd9}},
		{"uint16 cut short", []byte{0xcd, 0x01}},
		{"uint32 cut short", []byte{0xce, 0x01, 0x02}},
		{"map16 cut short", []byte{0xde, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := msgpack.NewReader(tt.data)
			var err error
			switch tt.name {
			case "map16 cut short":
				_, err = r.ReadMapHeader()
			case "uint16 cut short", "uint32 cut short":
				_, err = r.ReadUint()
			default:
				_, err = r.ReadString()
			}
			if !stderrors.Is(err, truncated) {
				t.Errorf("got %v, want truncated", err)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil", []byte{0xc0}},
		{"true", []byte{0xc3}},
		{"fixint", []byte{0x2a}},
		{"negative fixint", []byte{0xff}},
		{"uint64", []byte{0xcf, 1, 2, 3, 4, 5, 6, 7, 8}},
		{"int32", []byte{0xd2, 0xff, 0xff, 0xff, 0xfe}},
		{"float64", []byte{0xcb, 0x40, 0x09, 0x21, 0xfb, 0x54, 0x44, 0x2d, 0x18}},
		{"fixstr", []byte{0xa3, 'a', 'b', 'c'}},
		{"bin8", []byte{0xc4, 0x02, 0xde, 0xad}},
		{"fixarray nested", []byte{0x92, 0x01, 0xa1, 'x'}},
		{"fixmap nested", []byte{0x81, 0xa1, 'k', 0x92, 0x01, 0x02}},
		{"fixext4", []byte{0xd6, 0x01, 1, 2, 3, 4}},
		{"ext8", []byte{0xc7, 0x02, 0x05, 0xaa, 0xbb}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := msgpack.NewReader(tt.data)
			if err := r.Skip(); err != nil {
				t.Fatalf("Skip: %v", err)
			}
			if r.Remaining() != 0 {
				t.Errorf("Skip left %d bytes unread", r.Remaining())
			}
		})
	}
}

func TestSkipTruncated(t *testing.T) {
	truncated := &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindTruncated}
	tests := [][]byte{
		{0xa5, 'h', 'i'},       // fixstr payload missing
		{0x92, 0x01},           // array element missing
		{0x81, 0xa1, 'k'},      // map value missing
		{0xc4, 0x05, 0x01},     // bin payload short
		{0xcf, 1, 2, 3},        // uint64 short
	}
	for _, data := range tests {
		r := msgpack.NewReader(data)
		if err := r.Skip(); !stderrors.Is(err, truncated) {
			t.Errorf("Skip(% x) = %v, want truncated", data, err)
		}
	}
}

func FuzzSkip(f *testing.F) {
	f.Add([]byte{0x81, 0xa1, 'k', 0x2a})
	f.Add([]byte{0xdc, 0xff, 0xff})
	f.Add([]byte{0xc0})
	f.Fuzz(func(t *testing.T, data []byte) {
		// Skip must terminate and never panic on arbitrary input.
		r := msgpack.NewReader(data)
		_ = r.Skip()
	})
}
