// Package mempool provides the allocation substrate for tag codec operations:
// a thread-safe pooled block allocator and a lightweight decode-scoped arena.
//
// # Pool
//
// Pool serves repeated short-lived allocation requests from concurrent
// callers without a general-purpose allocator call per request. Memory is
// organized as an index-based chain of 64-byte-aligned blocks that are
// appended but never resized, so previously returned slices stay valid until
// Reset or Destroy. Requests above LargeAllocThreshold bypass the block
// chain and are tracked individually.
//
//	p := mempool.New(0)  // 16 MiB default block
//	buf := p.Alloc(1024) // 64-byte aligned, nil on failure
//	p.Reset()            // O(1) reclaim, capacity retained
//	p.Destroy()
//
// Allocation failure is signaled by a nil return, never a panic. There are
// no individual frees; reclamation is whole-pool Reset.
//
// # Arena
//
// Arena is a single-owner bump allocator scoped to one decode call. It is
// not safe for concurrent use and takes no locks. Decoded strings view
// arena memory directly and are invalid after Reset or Release.
//
// # Statistics
//
// Pool counters are independent atomics readable without the pool lock.
// They exist for observability only and are never consulted by the
// allocation logic itself.
package mempool
