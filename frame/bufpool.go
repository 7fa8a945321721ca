package frame

import (
	"math/bits"
	"sync"
	"unsafe"
)

// DefaultMaxBuffers caps how many buffers a pool retains for reuse.
const DefaultMaxBuffers = 16

// BufferPool reuses byte buffers across frame operations. Buffers are held
// at power-of-two capacities so differently sized requests still hit the
// same slots. The pool is explicit rather than process-global: each caller
// instantiates and injects its own.
type BufferPool struct {
	mu         sync.Mutex
	bufs       []poolBuf
	maxBuffers int
	totalBytes int
}

type poolBuf struct {
	data  []byte
	inUse bool
}

// BufferPoolStats is a point-in-time snapshot of pool occupancy.
type BufferPoolStats struct {
	Buffers    int // buffers owned by the pool
	InUse      int // owned buffers currently acquired
	TotalBytes int // sum of owned buffer capacities
}

// NewBufferPool creates a pool retaining at most maxBuffers buffers.
// Zero or negative selects DefaultMaxBuffers.
func NewBufferPool(maxBuffers int) *BufferPool {
	if maxBuffers <= 0 {
		maxBuffers = DefaultMaxBuffers
	}
	return &BufferPool{maxBuffers: maxBuffers}
}

// Acquire returns a buffer of length size, reusing a free pooled buffer
// when one is large enough. When the pool is at capacity the buffer is
// allocated unpooled and a later Release simply drops it. Returns nil for
// a non-positive size.
func (p *BufferPool) Acquire(size int) []byte {
	if size <= 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.bufs {
		b := &p.bufs[i]
		if !b.inUse && cap(b.data) >= size {
			b.inUse = true
			return b.data[:size]
		}
	}

	c := ceilPow2(size)
	data := make([]byte, c)
	if len(p.bufs) < p.maxBuffers {
		p.bufs = append(p.bufs, poolBuf{data: data, inUse: true})
		p.totalBytes += c
	}
	return data[:size]
}

// Release returns an acquired buffer to the pool. Buffers the pool does
// not own are ignored and left to the garbage collector. Pass the slice
// Acquire returned, not a resliced view of it.
func (p *BufferPool) Release(buf []byte) {
	if buf == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	base := unsafe.SliceData(buf)
	for i := range p.bufs {
		b := &p.bufs[i]
		if unsafe.SliceData(b.data) == base {
			b.inUse = false
			return
		}
	}
}

// Clear drops every buffer not currently acquired.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.bufs[:0]
	for _, b := range p.bufs {
		if b.inUse {
			kept = append(kept, b)
		} else {
			p.totalBytes -= cap(b.data)
		}
	}
	p.bufs = kept
}

// Stats reports current pool occupancy.
func (p *BufferPool) Stats() BufferPoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := BufferPoolStats{
		Buffers:    len(p.bufs),
		TotalBytes: p.totalBytes,
	}
	for _, b := range p.bufs {
		if b.inUse {
			s.InUse++
		}
	}
	return s
}

// ceilPow2 rounds n up to the next power of two.
func ceilPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
