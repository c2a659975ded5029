package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCodeForReason(t *testing.T) {
	cases := map[Reason]Code{
		ReasonInvalidQuantity:   CodeValidation,
		ReasonProductNotFound:   CodeNotFound,
		ReasonInsufficientStock: CodeConflict,
		ReasonHasActiveLoans:    CodeConflict,
		ReasonWrongPassword:     CodeUnauthorized,
		Reason("bogus"):         CodeInternal,
	}
	for reason, want := range cases {
		if got := CodeFor(reason); got != want {
			t.Fatalf("CodeFor(%s) = %s, want %s", reason, got, want)
		}
	}
}

func TestIsMatchesByReason(t *testing.T) {
	err := Newf(ReasonInsufficientStock, "available: %d", 10)
	wrapped := fmt.Errorf("add item: %w", err)

	if !errors.Is(wrapped, ErrInsufficientStock) {
		t.Fatalf("expected wrapped error to match sentinel")
	}
	if errors.Is(wrapped, ErrItemNotInCart) {
		t.Fatalf("unexpected match against a different reason")
	}
	if got := CodeOf(wrapped); got != CodeConflict {
		t.Fatalf("code = %s", got)
	}
	if got := ReasonOf(wrapped); got != ReasonInsufficientStock {
		t.Fatalf("reason = %s", got)
	}
}

func TestErrorStringIncludesDetailsAndCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ReasonStorage, cause, "persist cart").WithDetails("key=carrinho")

	msg := err.Error()
	for _, part := range []string{"Storage", "persist cart", "key=carrinho", "disk full"} {
		if !strings.Contains(msg, part) {
			t.Fatalf("message %q missing %q", msg, part)
		}
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause should be reachable through Unwrap")
	}
}

func TestForeignErrors(t *testing.T) {
	foreign := errors.New("plain")
	if CodeOf(foreign) != CodeInternal {
		t.Fatalf("foreign errors map to internal")
	}
	if ReasonOf(foreign) != "" {
		t.Fatalf("foreign errors have no reason")
	}
	if CodeOf(nil) != "" {
		t.Fatalf("nil has no code")
	}
}
