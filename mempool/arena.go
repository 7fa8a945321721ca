package mempool

import "unsafe"

// arenaAlign keeps arena offsets 8-byte aligned.
const arenaAlign = 8

// Arena is a bump allocator scoped to a single logical operation, typically
// one decode call. It owns every byte it hands out and has no notion of
// individual frees. Growth doubles the backing buffer; slices returned
// before a growth keep their old backing memory alive, so they stay valid
// until the arena is reset or released.
//
// Arena is NOT safe for concurrent use. No lock is taken because its
// lifetime is owned by exactly one operation at a time.
type Arena struct {
	buf  []byte
	used int
}

// NewArena creates an arena with the given initial capacity.
// A non-positive size falls back to a small default.
func NewArena(initialSize int) *Arena {
	if initialSize <= 0 {
		initialSize = 4096
	}
	if initialSize > maxAllocSize {
		return nil
	}
	return &Arena{buf: make([]byte, initialSize)}
}

// AllocBytes returns an n-byte slice of arena memory. Returns nil if n is
// not positive, the request is unserviceable, or the arena was released.
func (a *Arena) AllocBytes(n int) []byte {
	if a == nil || a.buf == nil || n <= 0 || n > maxAllocSize {
		return nil
	}

	need := (n + arenaAlign - 1) &^ (arenaAlign - 1)
	if a.used+need > len(a.buf) {
		if !a.grow(a.used + need) {
			return nil
		}
	}

	off := a.used
	a.used += need
	return a.buf[off : off+n : off+n]
}

// AllocString copies b into the arena and returns a string header viewing
// that arena memory. The string is valid until Reset or Release. Returns ""
// for empty input and "" with no allocation if the arena cannot grow.
func (a *Arena) AllocString(b []byte) (string, bool) {
	if len(b) == 0 {
		return "", true
	}
	dst := a.AllocBytes(len(b))
	if dst == nil {
		return "", false
	}
	copy(dst, b)
	return unsafe.String(&dst[0], len(dst)), true
}

// Reset rewinds the cursor, invalidating every outstanding slice.
// Capacity is retained.
func (a *Arena) Reset() {
	if a != nil {
		a.used = 0
	}
}

// Release drops the backing buffer. The arena is unusable afterwards;
// AllocBytes returns nil.
func (a *Arena) Release() {
	if a != nil {
		a.buf = nil
		a.used = 0
	}
}

// Used returns the bytes currently allocated, including alignment padding.
func (a *Arena) Used() int {
	if a == nil {
		return 0
	}
	return a.used
}

// Cap returns the current capacity of the backing buffer.
func (a *Arena) Cap() int {
	if a == nil {
		return 0
	}
	return len(a.buf)
}

// grow doubles the buffer until it covers need. The old buffer is copied;
// previously returned slices keep the old backing array.
func (a *Arena) grow(need int) bool {
	size := len(a.buf) * 2
	if size == 0 {
		size = 4096
	}
	for size < need {
		size *= 2
	}
	if size > maxAllocSize {
		return false
	}
	next := make([]byte, size)
	copy(next, a.buf[:a.used])
	a.buf = next
	return true
}
