// Package tagwire provides the memory and serialization substrate used to
// move audio tag records across a WebAssembly host/guest boundary.
//
// Audio parsing itself is owned by the guest module; this library owns
// everything the bytes pass through on the host side: a thread-safe pooled
// allocator, a decode-scoped arena, a compact MessagePack tag codec, and
// length-prefixed framing. Every operation returns an error instead of
// panicking, because faults at the boundary must degrade to status codes.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	tagwire/           Root package with GuestMemory and GuestAllocator interfaces
//	├── mempool/       Pooled block allocator and decode-scoped arena
//	├── msgpack/       MessagePack primitive reader/writer subset
//	├── tags/          Tag record type and two-pass codec
//	├── frame/         4-byte length-prefixed framing and reusable buffers
//	├── errors/        Structured status errors with stable wire codes
//	└── bridge/        wazero-backed host bridge to a tag-reader guest module
//
// # Quick Start
//
// Encode a record with exact pre-measurement:
//
//	td := &tags.TagData{Title: "Song", Artist: "Artist", Year: 2024}
//	n, _ := tags.EncodeSize(td)
//	buf := make([]byte, n)
//	written, err := tags.Encode(td, buf)
//
// Decode with arena-owned string memory:
//
//	arena := mempool.NewArena(4096)
//	defer arena.Release()
//	td, err := tags.Decode(buf[:written], arena)
//
// # Memory Model
//
// Pool allocations are 64-byte aligned and live until Reset or Destroy;
// there are no individual frees. Strings in a decoded record view arena
// memory directly and are invalid after the arena is reset or released.
//
// # Thread Safety
//
// Pool is safe for concurrent use. Arena, the codec readers/writers, and
// Bridge instances are not; use one per logical operation.
package tagwire
