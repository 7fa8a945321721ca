// Package tags defines the fixed-shape tag record exchanged across the
// wasm boundary and its MessagePack codec.
//
// A record is a transient value: a producer fills it immediately before
// Encode, a consumer reads it immediately after Decode and before the
// owning arena is released. String fields of a decoded record view arena
// memory directly; the record never owns memory of its own.
//
// Encoding is two-pass: EncodeSize measures the exact output using the
// same field order and encoding rules as Encode, so callers allocate the
// destination once and the hot path performs no hidden allocation.
//
// Decoding routes each map key through a sorted dispatch table via binary
// search. Unknown keys are skipped rather than rejected; newer producers may emit
// fields this decoder does not know. Duplicate keys follow last-write-wins.
// An error at any entry aborts the decode; no partial record is returned.
package tags
