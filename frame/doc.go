// Package frame implements the length-prefixed framing convention used to
// move encoded records across process and wasm boundaries: a 4-byte
// little-endian payload length followed by exactly that many bytes.
//
// Framing is a transport convention, not part of the record encoding; the
// codec never sees the prefix. The package also provides BufferPool, an
// explicit buffer reuse pool for callers that frame at high rates.
package frame
