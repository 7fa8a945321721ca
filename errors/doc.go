// Package errors provides structured error types for the tagwire library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Kind set is closed and each member carries a stable negative
// status code via Kind.Code, so errors can cross the wasm boundary as plain
// integers and be reconstructed on the other side.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
//		Path("title").
//		Detail("expected string, found uint").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(errors.PhaseDecode, pos, need)
//	err := errors.Range(errors.PhaseEncode, "destination too small: %d < %d", cap, need)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
