package exchange

import (
	"context"
	"errors"
	"testing"
)

func TestAttemptErrorIs(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		kind FailureKind
		want error
	}{
		{FailureSocket, ErrSocket},
		{FailureSend, ErrSend},
		{FailureTimeout, ErrTimeout},
		{FailureDecode, ErrDecode},
		{FailureMismatch, ErrMismatch},
		{FailureCanceled, ErrCanceled},
	}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			err := error(&AttemptError{Attempt: 2, Kind: tc.kind, Err: cause})
			if !errors.Is(err, tc.want) {
				t.Errorf("errors.Is(%v, %v) = false", err, tc.want)
			}
			if !errors.Is(err, cause) {
				t.Errorf("errors.Is(%v, cause) = false", err)
			}
		})
	}
}

func TestExhaustedErrorChain(t *testing.T) {
	last := &AttemptError{Attempt: 3, Kind: FailureTimeout, Err: context.DeadlineExceeded}
	err := error(&ExhaustedError{Attempts: 3, Last: last})

	if !errors.Is(err, ErrExhausted) {
		t.Error("ExhaustedError does not match ErrExhausted")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Error("ExhaustedError does not expose the last failure kind")
	}

	var ae *AttemptError
	if !errors.As(err, &ae) || ae.Attempt != 3 {
		t.Errorf("errors.As() = %v, want last attempt", ae)
	}

	if (&ExhaustedError{Attempts: 1}).Error() == "" {
		t.Error("Error() is empty without a last attempt")
	}
}

func TestPreflightErrors(t *testing.T) {
	cause := errors.New("no such host")
	rerr := error(&ResolveError{Host: "nowhere", Err: cause})
	if !errors.Is(rerr, ErrResolve) || !errors.Is(rerr, cause) {
		t.Errorf("ResolveError chain broken: %v", rerr)
	}

	eerr := error(&EncodeError{Err: cause})
	if !errors.Is(eerr, ErrEncode) || !errors.Is(eerr, cause) {
		t.Errorf("EncodeError chain broken: %v", eerr)
	}
	if errors.Is(eerr, ErrResolve) {
		t.Error("EncodeError matches ErrResolve")
	}
}

func TestFailureKindConnectionless(t *testing.T) {
	for _, k := range []FailureKind{FailureSocket, FailureSend} {
		if !k.Connectionless() {
			t.Errorf("%v.Connectionless() = false", k)
		}
	}
	for _, k := range []FailureKind{FailureTimeout, FailureDecode, FailureMismatch, FailureCanceled} {
		if k.Connectionless() {
			t.Errorf("%v.Connectionless() = true", k)
		}
	}
}

func TestStateString(t *testing.T) {
	states := map[State]string{
		StateResolving:  "Resolving",
		StateEncoding:   "Encoding",
		StateAttempting: "Attempting",
		StateMatched:    "Matched",
		StateExhausted:  "Exhausted",
		StateUnknown:    "Unknown",
	}
	for s, want := range states {
		if s.String() != want {
			t.Errorf("String() = %q, want %q", s.String(), want)
		}
	}
	if !StateMatched.IsTerminal() || StateAttempting.IsTerminal() {
		t.Error("IsTerminal() misclassified a state")
	}
}
