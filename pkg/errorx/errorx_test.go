package errorx

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Wrap(cause, CodeDBError, "save thread")

	if !errors.Is(err, cause) {
		t.Fatal("wrapped cause lost from the chain")
	}
	if got := err.Error(); got != "save thread: disk on fire" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(CodeConflict, "stale")); got != CodeConflict {
		t.Fatalf("got %d, want %d", got, CodeConflict)
	}

	// codes survive further wrapping with fmt
	wrapped := fmt.Errorf("outer: %w", New(CodeNotFound, "gone"))
	if got := GetCode(wrapped); got != CodeNotFound {
		t.Fatalf("got %d through fmt wrap, want %d", got, CodeNotFound)
	}

	if got := GetCode(errors.New("plain")); got != CodeServerBusy {
		t.Fatalf("plain error mapped to %d, want %d", got, CodeServerBusy)
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(New(CodeNotFound, "no such thread")) {
		t.Fatal("CodeNotFound not recognized")
	}
	if !IsNotFound(Wrap(errors.New("record not found"), CodeNotFound, "find thread")) {
		t.Fatal("wrapped not-found not recognized")
	}
	if IsNotFound(New(CodeDBError, "boom")) {
		t.Fatal("CodeDBError misread as not-found")
	}
	if IsNotFound(nil) {
		t.Fatal("nil misread as not-found")
	}
}
