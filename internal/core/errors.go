package core

import "errors"

var (
	// ErrInvalidRequest marks a malformed top-level request.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTooManyRequests is returned when all analyze slots are occupied and
	// the wait timeout expires. Clients should retry after a short delay.
	ErrTooManyRequests = errors.New("too many concurrent requests, please try again later")

	// ErrOperationTimeout is wrapped into the failure of a capability that
	// did not return within the operation timeout.
	ErrOperationTimeout = errors.New("operation timed out")

	// ErrPersistenceDisabled is returned by account operations when no
	// database is configured.
	ErrPersistenceDisabled = errors.New("persistence is not configured")

	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
