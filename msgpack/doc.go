// Package msgpack implements the MessagePack primitives the tag codec
// needs: map headers, UTF-8 strings, and unsigned integers, plus a generic
// skip for forward compatibility.
//
// This is deliberately a subset, not a general object mapper. Values are
// written in their smallest canonical encoding, so output is byte-for-byte
// compatible with other MessagePack implementations and deterministic for
// a given input.
//
// The Reader is a cursor over a byte slice with strict bounds checking;
// there is no persistent state beyond the cursor, no backtracking, and
// every failure is a structured error: truncated input, a wire type that
// disagrees with the expected family, or a value out of range. Nothing in
// this package panics on malformed input.
//
// Writing is two-phase friendly: the *Size functions compute the exact
// encoded size using the same rules as the Writer, so callers can allocate
// a destination once and write with no hidden growth.
package msgpack
