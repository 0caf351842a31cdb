package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestTypedErrors_MatchSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"validation", NewValidationError("email", "bad"), ErrValidation},
		{"authentication", &AuthenticationError{Reason: AuthExpired}, ErrorUnauthenticated},
		{"authorization", &AuthorizationError{Reason: DenyNotAdmin}, ErrorUnauthorized},
		{"persistence", &PersistenceError{Op: "x", Err: errors.New("boom")}, ErrPersistence},
		{"wrapped validation", fmt.Errorf("ctx: %w", NewValidationError("title", "empty")), ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.target) {
				t.Fatalf("errors.Is(%v, %v) = false", tt.err, tt.target)
			}
		})
	}
}

func TestAuthenticationError_UnwrapsCause(t *testing.T) {
	err := &AuthenticationError{Reason: AuthExpired, Err: ErrTokenExpired}
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected cause to be reachable, got %v", err)
	}
}

func TestIsPartial(t *testing.T) {
	if IsPartial(errors.New("plain")) {
		t.Fatal("plain error must not be partial")
	}
	if IsPartial(&PersistenceError{Op: "delete user", Err: errors.New("x")}) {
		t.Fatal("non-partial persistence error reported as partial")
	}
	err := fmt.Errorf("wrap: %w", &PersistenceError{Op: "delete user", Partial: true, Err: errors.New("x")})
	if !IsPartial(err) {
		t.Fatal("expected partial marker to be detected through wrapping")
	}
}
