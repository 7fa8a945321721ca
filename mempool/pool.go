package mempool

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

const (
	// AllocAlign is the alignment of every slice returned by Pool.Alloc.
	AllocAlign = 64

	// LargeAllocThreshold is the request size above which an allocation
	// bypasses the block chain and is tracked individually.
	LargeAllocThreshold = 1 << 20 // 1 MiB

	// DefaultBlockSize is used when New is called with size 0.
	DefaultBlockSize = 16 << 20 // 16 MiB

	// maxAllocSize caps a single request. Anything larger is refused
	// rather than handed to the runtime allocator.
	maxAllocSize = 1 << 30 // 1 GiB
)

// block is one fixed-size region of the chain. data is an aligned sub-slice
// of a slightly over-allocated buffer; it is never resized or moved, which
// keeps previously returned slices valid across chain growth.
type block struct {
	data []byte
	used int
}

func newBlock(size int) *block {
	raw := make([]byte, size+AllocAlign)
	pad := alignPad(unsafe.Pointer(&raw[0]))
	return &block{data: raw[pad : pad+size : pad+size]}
}

func (b *block) remaining() int {
	return len(b.data) - b.used
}

// Pool is a thread-safe pooled bump allocator: an index-based chain of
// 64-byte-aligned blocks plus a side list of standalone large allocations.
// All structural state is guarded by mu; the statistics counters are
// independent atomics and must never drive allocation decisions.
type Pool struct {
	mu      sync.Mutex
	blocks  []*block
	current int
	large   [][]byte

	defaultBlockSize int

	totalAllocated atomic.Uint64
	totalUsed      atomic.Uint64
	blockCount     atomic.Int64
}

// PoolStats is a point-in-time snapshot of pool counters.
type PoolStats struct {
	TotalAllocated uint64 // bytes reserved from the system, blocks + larges
	TotalUsed      uint64 // bytes handed out since the last Reset
	Blocks         int64  // blocks currently in the chain
}

// New creates a pool with one block of initialSize bytes.
// initialSize 0 selects DefaultBlockSize. Returns nil if the size is
// unserviceable.
func New(initialSize int) *Pool {
	if initialSize < 0 || initialSize > maxAllocSize {
		return nil
	}
	if initialSize == 0 {
		initialSize = DefaultBlockSize
	}

	p := &Pool{defaultBlockSize: initialSize}
	p.blocks = append(p.blocks, newBlock(initialSize))
	p.totalAllocated.Store(uint64(initialSize))
	p.blockCount.Store(1)
	return p
}

// Alloc returns a 64-byte-aligned slice of at least size bytes, valid until
// Reset or Destroy. Returns nil on a zero or unserviceable size, or if the
// pool has been destroyed. Never panics for ordinary failure conditions.
func (p *Pool) Alloc(size int) []byte {
	if p == nil || size <= 0 || size > maxAllocSize {
		return nil
	}

	// Round up to the alignment quantum so consecutive allocations
	// within a block stay aligned.
	size = (size + AllocAlign - 1) &^ (AllocAlign - 1)

	if size > LargeAllocThreshold {
		return p.allocLarge(size)
	}

	p.mu.Lock()
	if p.blocks == nil {
		p.mu.Unlock()
		return nil
	}

	b := p.blocks[p.current]
	if b.remaining() < size {
		b = p.nextBlock(size)
	}

	off := b.used
	b.used += size
	p.mu.Unlock()

	p.totalUsed.Add(uint64(size))
	return b.data[off : off+size : off+size]
}

// allocLarge tracks the allocation on the side list so Reset can release it
// without fragmenting the block chain. Only the bookkeeping is locked.
func (p *Pool) allocLarge(size int) []byte {
	raw := make([]byte, size+AllocAlign)
	pad := alignPad(unsafe.Pointer(&raw[0]))
	buf := raw[pad : pad+size : pad+size]

	p.mu.Lock()
	if p.blocks == nil {
		p.mu.Unlock()
		return nil
	}
	p.large = append(p.large, buf)
	p.mu.Unlock()

	p.totalAllocated.Add(uint64(size))
	p.totalUsed.Add(uint64(size))
	return buf
}

// nextBlock advances to a later block with room, appending a new one when
// the chain is exhausted. Existing blocks are never resized. Caller holds mu.
func (p *Pool) nextBlock(need int) *block {
	for i := p.current + 1; i < len(p.blocks); i++ {
		if p.blocks[i].remaining() >= need {
			p.current = i
			return p.blocks[i]
		}
	}

	size := p.defaultBlockSize
	if need*2 > size {
		size = need * 2
	}
	b := newBlock(size)
	p.blocks = append(p.blocks, b)
	p.current = len(p.blocks) - 1

	p.totalAllocated.Add(uint64(size))
	p.blockCount.Add(1)
	return b
}

// Reset marks every block empty, releases large allocations, and rewinds
// the current-block cursor. Block capacity is retained; TotalAllocated for
// blocks is unchanged. Callers must not retain slices across a Reset.
func (p *Pool) Reset() {
	if p == nil {
		return
	}
	p.mu.Lock()
	for _, b := range p.blocks {
		b.used = 0
	}
	p.large = nil
	p.current = 0
	p.mu.Unlock()

	// TotalAllocated deliberately keeps counting released large
	// allocations; it tracks lifetime reservation, not residency.
	p.totalUsed.Store(0)
}

// Destroy releases the block chain and all large allocations. Idempotent
// and nil-safe. The pool is unusable afterwards; Alloc returns nil.
func (p *Pool) Destroy() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.blocks = nil
	p.large = nil
	p.current = 0
	p.mu.Unlock()

	p.totalAllocated.Store(0)
	p.totalUsed.Store(0)
	p.blockCount.Store(0)
}

// Stats returns a lock-free snapshot of the pool counters.
func (p *Pool) Stats() PoolStats {
	if p == nil {
		return PoolStats{}
	}
	return PoolStats{
		TotalAllocated: p.totalAllocated.Load(),
		TotalUsed:      p.totalUsed.Load(),
		Blocks:         p.blockCount.Load(),
	}
}

// alignPad returns the byte offset that aligns ptr up to AllocAlign.
func alignPad(ptr unsafe.Pointer) int {
	return int((AllocAlign - uintptr(ptr)%AllocAlign) % AllocAlign)
}
