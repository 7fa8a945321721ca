package errors_test

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/audiotag/tagwire/errors"
)

func TestErrorString(t *testing.T) {
	err := errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
		Path("title").
		Detail("expected string, found uint").
		Build()

	got := err.Error()
	for _, want := range []string{"[decode]", "type_mismatch", "at title", "expected string, found uint"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestErrorIs(t *testing.T) {
	err := errors.Truncated(errors.PhaseDecode, 10, 4)

	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindTruncated}) {
		t.Error("Is should match same phase and kind")
	}
	if stderrors.Is(err, &errors.Error{Phase: errors.PhaseEncode, Kind: errors.KindTruncated}) {
		t.Error("Is should not match different phase")
	}
	if stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindRange}) {
		t.Error("Is should not match different kind")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := errors.Internal(errors.PhaseEncode, "writer fault", cause)

	if !stderrors.Is(err, cause) {
		t.Error("Unwrap chain should reach the cause")
	}
	if !strings.Contains(err.Error(), "underlying") {
		t.Errorf("Error() = %q, should include cause", err.Error())
	}
}

func TestKindCodes(t *testing.T) {
	tests := []struct {
		kind errors.Kind
		code int32
	}{
		{errors.KindInvalidInput, -1},
		{errors.KindTypeMismatch, -2},
		{errors.KindRange, -3},
		{errors.KindOutOfMemory, -4},
		{errors.KindTruncated, -5},
		{errors.KindInternal, -6},
	}

	seen := make(map[int32]errors.Kind)
	for _, tt := range tests {
		if got := tt.kind.Code(); got != tt.code {
			t.Errorf("%s.Code() = %d, want %d", tt.kind, got, tt.code)
		}
		if prev, dup := seen[tt.kind.Code()]; dup {
			t.Errorf("code %d shared by %s and %s", tt.kind.Code(), prev, tt.kind)
		}
		seen[tt.kind.Code()] = tt.kind
	}

	if got := errors.Kind("bogus").Code(); got != -99 {
		t.Errorf("unknown kind code = %d, want -99", got)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		err  *errors.Error
		kind errors.Kind
	}{
		{errors.InvalidInput(errors.PhaseDecode, "nil buffer"), errors.KindInvalidInput},
		{errors.TypeMismatch(errors.PhaseDecode, []string{"year"}, "uint", "str"), errors.KindTypeMismatch},
		{errors.Range(errors.PhaseEncode, "dst too small: %d < %d", 4, 9), errors.KindRange},
		{errors.OutOfMemory(errors.PhaseAlloc, 128), errors.KindOutOfMemory},
		{errors.Truncated(errors.PhaseDecode, 3, 2), errors.KindTruncated},
		{errors.Internal(errors.PhaseEncode, "fault", nil), errors.KindInternal},
	}

	for _, tt := range tests {
		if tt.err.Kind != tt.kind {
			t.Errorf("constructor produced kind %s, want %s", tt.err.Kind, tt.kind)
		}
		if tt.err.Code() != tt.kind.Code() {
			t.Errorf("Code() = %d, want %d", tt.err.Code(), tt.kind.Code())
		}
	}
}
