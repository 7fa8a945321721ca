package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseAlloc  Phase = "alloc"  // pool/arena allocation
	PhaseEncode Phase = "encode" // record to wire bytes
	PhaseDecode Phase = "decode" // wire bytes to record
	PhaseFrame  Phase = "frame"  // length-prefixed framing
	PhaseBridge Phase = "bridge" // host/guest boundary calls
)

// Kind categorizes the error. The set is closed: every failure in the
// substrate maps to exactly one of these.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input" // null/zero-length arguments
	KindTypeMismatch Kind = "type_mismatch" // wire type disagrees with field type
	KindRange        Kind = "range"         // destination too small or value unrepresentable
	KindOutOfMemory  Kind = "out_of_memory" // system or arena allocation failure
	KindTruncated    Kind = "truncated"     // buffer ends before a value completes
	KindInternal     Kind = "internal"      // reader/writer fault not otherwise classified
)

// Code returns the stable negative status code for a Kind, suitable for
// crossing the wasm boundary. Codes never change between releases.
func (k Kind) Code() int32 {
	switch k {
	case KindInvalidInput:
		return -1
	case KindTypeMismatch:
		return -2
	case KindRange:
		return -3
	case KindOutOfMemory:
		return -4
	case KindTruncated:
		return -5
	case KindInternal:
		return -6
	default:
		return -99
	}
}

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Code returns the stable status code for this error's kind.
func (e *Error) Code() int32 {
	return e.Kind.Code()
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// TypeMismatch creates a type mismatch error for a decoded field
func TypeMismatch(phase Phase, path []string, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Detail: fmt.Sprintf("expected %s, found %s", want, got),
	}
}

// Range creates a range error (destination too small, value unrepresentable)
func Range(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRange,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// OutOfMemory creates an allocation failure error
func OutOfMemory(phase Phase, size int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfMemory,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
	}
}

// Truncated creates a truncation error with the position where input ended
func Truncated(phase Phase, pos, need int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncated,
		Detail: fmt.Sprintf("input ends at byte %d, need %d more", pos, need),
	}
}

// Internal creates an internal fault error
func Internal(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInternal,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with phase and kind context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
