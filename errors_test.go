package corelc

import (
	"errors"
	"testing"
)

func TestCoreErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	ce := &CoreError{Kind: IllFormedInput, Msg: "wrapping", Err: cause}
	if !errors.Is(ce, cause) {
		t.Error("errors.Is should see through CoreError.Unwrap")
	}
}

func TestCoreErrorString(t *testing.T) {
	ce := &CoreError{Kind: InvalidPattern, Msg: "bad splice"}
	if got := ce.Error(); got == "" {
		t.Error("Error() should not be empty")
	}
}

func TestErrorKindString(t *testing.T) {
	for _, k := range []ErrorKind{IllFormedInput, RewriteBudgetExceeded, NonExhaustivePatternMatch, InvalidPattern} {
		if k.String() == "" {
			t.Errorf("ErrorKind(%d).String() is empty", k)
		}
	}
}
