package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name: "nil error returns empty",
			err:  nil,
		},
		{
			name:        "invalid credentials",
			err:         ErrInvalidCredentials,
			wantCode:    "AUTH001",
			wantMessage: "Invalid credentials",
		},
		{
			name:        "user exists",
			err:         fmt.Errorf("create user: %w", ErrUserExists),
			wantCode:    "AUTH002",
			wantMessage: "User already exists",
		},
		{
			name:        "busy limiter",
			err:         ErrTooManyRequests,
			wantCode:    "RATE002",
			wantMessage: "The server is busy with other analyses",
		},
		{
			name:        "operation timeout wins over context",
			err:         fmt.Errorf("%w after 10s: context deadline exceeded", ErrOperationTimeout),
			wantCode:    "OP001",
			wantMessage: "An operation took too long to finish",
		},
		{
			name:        "body too large",
			err:         errors.New("http: request body too large"),
			wantCode:    "REQ002",
			wantMessage: "The submitted text is too large",
		},
		{
			name:        "persistence disabled",
			err:         ErrPersistenceDisabled,
			wantCode:    "DB001",
			wantMessage: "Accounts and history are not enabled on this server",
		},
		{
			name:        "connection refused",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB003",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "malformed table",
			err:         fmt.Errorf("%w: record on line 2: wrong number of fields", ErrMalformedTable),
			wantCode:    "FILE001",
			wantMessage: "Tabular input could not be parsed",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("DUPLICATE KEY value violates"),
			wantCode:    "DB002",
			wantMessage: "A record with this value already exists",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrInvalidCredentials)

	expected := "Invalid credentials (Code: AUTH001). Check your email and password"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: ErrUserExists, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("login: %w", ErrInvalidCredentials)
		userErr := NewUserError(techErr)

		if userErr.Error() != "Invalid credentials" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrInvalidCredentials) {
			t.Error("Unwrap() should expose the original error")
		}
	})
}
