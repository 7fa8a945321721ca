// Package bridge runs a tag-reader WebAssembly guest module and moves
// framed tag records across the host/guest boundary.
//
// The guest owns audio parsing and exports a small C-style ABI
// (tl_malloc, tl_free, tl_read_tags, tl_write_tags); the bridge owns
// everything on the host side: copying audio into guest linear memory,
// pulling the returned frame back out with strict bounds checks, and
// decoding it into a per-call arena. A Bridge instance is not safe for
// concurrent use; decoded records are valid until the next call on the
// same bridge.
package bridge
