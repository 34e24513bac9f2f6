package core

// # Error Codes Reference
//
// This file maps technical errors to user-facing messages with a code that
// users can quote to support staff.
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid request: The request could not be read
//	         Patterns: "invalid request"
//	REQ002 - Body too large: The submitted text is too large
//	         Patterns: "request body too large"
//	REQ003 - Missing field: A required field is missing
//	         Patterns: "is required"
//	REQ004 - Cancelled: The request was cancelled
//	         Patterns: "context canceled"
//	REQ005 - Timeout: The request took too long
//	         Patterns: "context deadline exceeded"
//
// # Operation Errors (OP001-OP099)
//
//	OP001 - Operation timeout: An operation took too long to finish
//	        Patterns: "operation timed out"
//
// # Account Errors (AUTH001-AUTH099)
//
//	AUTH001 - Invalid credentials: Email or password is incorrect
//	          Patterns: "invalid credentials"
//	AUTH002 - User exists: An account with this email already exists
//	          Patterns: "user already exists"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Persistence disabled: Accounts and history are not enabled
//	        Patterns: "persistence is not configured"
//	DB002 - Duplicate: A record with this value already exists
//	        Patterns: "duplicate key", "violates unique"
//	DB003 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//	DB004 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
// # Input Errors (FILE001-FILE099)
//
//	FILE001 - Invalid CSV: Tabular input could not be parsed
//	          Patterns: "invalid csv"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//	RATE002 - Busy: Too many analyses running at once
//	          Patterns: "too many concurrent requests"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is ordered. More specific patterns must come first.
var errorPatterns = []errorPattern{
	// Request errors
	{
		pattern: "is required",
		msg: UserMessage{
			Message: "A required field is missing",
			Action:  "Fill in every required field and try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Send a JSON body with text and operations",
			Code:    "REQ001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The submitted text is too large",
			Action:  "Split the text into smaller parts",
			Code:    "REQ002",
		},
	},

	// Operation errors
	{
		pattern: "operation timed out",
		msg: UserMessage{
			Message: "An operation took too long to finish",
			Action:  "Try again with a shorter text",
			Code:    "OP001",
		},
	},

	// Account errors
	{
		pattern: "invalid credentials",
		msg: UserMessage{
			Message: "Invalid credentials",
			Action:  "Check your email and password",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "user already exists",
		msg: UserMessage{
			Message: "User already exists",
			Action:  "Log in instead, or sign up with a different email",
			Code:    "AUTH002",
		},
	},

	// Database errors
	{
		pattern: "persistence is not configured",
		msg: UserMessage{
			Message: "Accounts and history are not enabled on this server",
			Action:  "Ask the administrator to configure a database",
			Code:    "DB001",
		},
	},
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this value already exists",
			Action:  "Use a different value",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A record with this value already exists",
			Action:  "Use a different value",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},

	// Input errors
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "Tabular input could not be parsed",
			Action:  "Ensure the text is comma-separated with consistent columns",
			Code:    "FILE001",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "too many concurrent requests",
		msg: UserMessage{
			Message: "The server is busy with other analyses",
			Action:  "Please wait a moment and try again",
			Code:    "RATE002",
		},
	},

	// Context errors last: wrapped causes above should win.
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again with a shorter text",
			Code:    "REQ005",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
//
// Example:
//
//	msg := MapError(ErrInvalidCredentials)
//	// msg.Code == "AUTH001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
