package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesKind(t *testing.T) {
	err := NotFound("room not found")
	if !Is(err, KindNotFound) {
		t.Fatal("expected Is to match KindNotFound")
	}
	if Is(err, KindConflict) {
		t.Fatal("expected Is to not match a different kind")
	}
}

func TestIsUnwrapsWrappedError(t *testing.T) {
	base := Conflict("duplicate name")
	wrapped := fmt.Errorf("joining room: %w", base)
	if !Is(wrapped, KindConflict) {
		t.Fatal("expected Is to see through fmt.Errorf wrapping")
	}
}

func TestIsFalseForPlainError(t *testing.T) {
	if Is(errors.New("boom"), KindInternal) {
		t.Fatal("expected Is to be false for an unrelated plain error")
	}
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)
	if err.Kind != KindInternal {
		t.Fatalf("expected KindInternal, got %s", err.Kind)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
}
