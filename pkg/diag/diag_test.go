package diag

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindRemote, cause, "document listing failed", "check network access")

	if got, want := err.Error(), "document listing failed: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause must be reachable via errors.Is")
	}
}

func TestFromFindsDiagnosticInChain(t *testing.T) {
	inner := New(KindAuth, "no token", "set GRANOLA_TOKEN")
	wrapped := fmt.Errorf("running sync: %w", inner)

	d, ok := From(wrapped)
	if !ok {
		t.Fatal("From() did not find the diagnostic")
	}
	if d.Kind != KindAuth {
		t.Errorf("Kind = %q, want %q", d.Kind, KindAuth)
	}
	if d.Hint != "set GRANOLA_TOKEN" {
		t.Errorf("Hint = %q", d.Hint)
	}
}

func TestFromPlainError(t *testing.T) {
	if _, ok := From(errors.New("plain")); ok {
		t.Error("plain errors carry no diagnostic")
	}
}
