package mempool

import (
	"bytes"
	"testing"
)

func TestArenaAllocBytes(t *testing.T) {
	a := NewArena(64)
	defer a.Release()

	buf := a.AllocBytes(10)
	if buf == nil {
		t.Fatal("AllocBytes returned nil")
	}
	if len(buf) != 10 {
		t.Errorf("len = %d, want 10", len(buf))
	}

	// Offsets advance with 8-byte alignment.
	if a.Used() != 16 {
		t.Errorf("Used = %d, want 16", a.Used())
	}

	next := a.AllocBytes(4)
	if next == nil {
		t.Fatal("second AllocBytes returned nil")
	}
	copy(buf, "0123456789")
	copy(next, "abcd")
	if string(buf) != "0123456789" || string(next) != "abcd" {
		t.Error("allocations share bytes")
	}
}

func TestArenaGrowth(t *testing.T) {
	a := NewArena(16)
	defer a.Release()

	first := a.AllocBytes(8)
	copy(first, "aaaaaaaa")

	// Force doubling growth several times.
	for i := 0; i < 10; i++ {
		if a.AllocBytes(64) == nil {
			t.Fatalf("AllocBytes failed on growth iteration %d", i)
		}
	}

	// Pre-growth slices keep their contents.
	if !bytes.Equal(first, []byte("aaaaaaaa")) {
		t.Error("pre-growth allocation corrupted")
	}
	if a.Cap() < a.Used() {
		t.Errorf("Cap %d < Used %d", a.Cap(), a.Used())
	}
}

func TestArenaAllocString(t *testing.T) {
	a := NewArena(64)
	defer a.Release()

	s, ok := a.AllocString([]byte("héllo wörld"))
	if !ok {
		t.Fatal("AllocString failed")
	}
	if s != "héllo wörld" {
		t.Errorf("got %q", s)
	}

	empty, ok := a.AllocString(nil)
	if !ok || empty != "" {
		t.Errorf("AllocString(nil) = %q, %v", empty, ok)
	}
	if a.Used() != 16 { // only the non-empty string consumed memory
		t.Errorf("Used = %d, want 16", a.Used())
	}
}

func TestArenaReset(t *testing.T) {
	a := NewArena(64)
	defer a.Release()

	a.AllocBytes(48)
	capBefore := a.Cap()

	a.Reset()
	if a.Used() != 0 {
		t.Errorf("Used after Reset = %d, want 0", a.Used())
	}
	if a.Cap() != capBefore {
		t.Errorf("Reset changed capacity: %d -> %d", capBefore, a.Cap())
	}

	if a.AllocBytes(48) == nil {
		t.Error("AllocBytes after Reset returned nil")
	}
}

func TestArenaRelease(t *testing.T) {
	a := NewArena(64)
	a.Release()

	if buf := a.AllocBytes(8); buf != nil {
		t.Error("AllocBytes after Release should return nil")
	}
	if _, ok := a.AllocString([]byte("x")); ok {
		t.Error("AllocString after Release should fail")
	}
	a.Release() // idempotent

	var nilArena *Arena
	if nilArena.AllocBytes(8) != nil {
		t.Error("AllocBytes on nil arena should return nil")
	}
}

func TestArenaInvalidSizes(t *testing.T) {
	a := NewArena(64)
	defer a.Release()

	if a.AllocBytes(0) != nil {
		t.Error("AllocBytes(0) should return nil")
	}
	if a.AllocBytes(-5) != nil {
		t.Error("AllocBytes(-5) should return nil")
	}
	if a.AllocBytes(maxAllocSize+1) != nil {
		t.Error("oversized AllocBytes should return nil")
	}
}
