// Package core runs feed validations: it loads a feed, executes the
// registered validators, builds the report and records run history.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When a validation request fails outright (as opposed to producing notices),
// the API answers with one of these codes so callers can quote it.
//
// Error codes are grouped by category:
//
// # Feed Errors (FEED001-FEED099)
//
// Errors related to the submitted feed archive:
//
//	FEED001 - Feed too large: Feed exceeds the maximum upload size
//	          Action: Remove unused files or raise the server limit
//	          Patterns: "feed too large", "request body too large"
//
//	FEED002 - Not a zip: The uploaded file is not a valid zip archive
//	          Action: Upload the GTFS feed as a .zip file
//	          Patterns: "not a valid zip file"
//
//	FEED003 - No file: No feed was provided
//	          Action: Attach the feed as the "file" form field
//	          Patterns: "no file provided"
//
//	FEED004 - Unreadable feed: A file in the feed could not be read
//	          Action: Check that the archive is not truncated or encrypted
//	          Patterns: "read zip", "zip: checksum error", "unexpected eof"
//
//	FEED005 - Missing entry: A file was not found in the feed
//	          Action: Check the archive layout, files must be at the root
//	          Patterns: "file not found in feed"
//
// # Run Errors (RUN001-RUN099)
//
// Errors related to executing a validation run:
//
//	RUN001 - System busy: Too many validations in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent validation runs"
//
//	RUN002 - Run cancelled: The validation was cancelled
//	         Action: Submit the feed again when ready
//	         Patterns: "context canceled"
//
//	RUN003 - Run timeout: The validation took too long
//	         Action: Try again later or ask for a longer run timeout
//	         Patterns: "context deadline exceeded"
//
//	RUN004 - Validator misconfigured: A validator needs a table the schema does not define
//	         Action: Contact support, this is a server configuration problem
//	         Patterns: "unsatisfied validator dependency"
//
//	RUN005 - Unknown validator: A skipped or configured validator does not exist
//	         Action: Check the validator names at /api/validators
//	         Patterns: "unknown validator"
//
// # Store Errors (STORE001-STORE099)
//
// Errors related to run history storage:
//
//	STORE001 - Run not found: No validation run with this ID
//	           Action: Check the run ID, old runs may have been pruned
//	           Patterns: "run not found"
//
//	STORE002 - Connection refused: Unable to connect to database
//	           Action: Please try again in a few moments
//	           Patterns: "connection refused"
//
//	STORE003 - Connection reset: Database connection was interrupted
//	           Action: Please try again
//	           Patterns: "connection reset"
//
//	STORE004 - Timeout: Database operation timed out
//	           Action: Please try again later
//	           Patterns: "timeout"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid parameter: A query parameter could not be parsed
//	         Action: Check the parameter format, dates use YYYYMMDD
//	         Patterns: "invalid parameter"
//
//	REQ002 - Rate limited: Too many requests
//	         Action: Please wait a moment before trying again
//	         Patterns: "rate limit"
//
// # Fallback (ERR000)
//
//	ERR000 - Unexpected error: Any error not matching the patterns above
//	         Action: Please try again or contact support
package core

import (
	"fmt"
	"strings"
)

// UserMessage represents a user-friendly error message with context.
type UserMessage struct {
	Message string `json:"message"` // What went wrong
	Action  string `json:"action"`  // What the caller should do
	Code    string `json:"code"`    // Support reference code
}

// errorPattern maps an error substring to a user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is checked in order; the first match wins. More specific
// patterns must come before general ones ("context deadline exceeded" before
// "timeout").
var errorPatterns = []errorPattern{
	// =========================================================================
	// Feed errors
	// =========================================================================
	{
		pattern: "feed too large",
		msg: UserMessage{
			Message: "Feed exceeds the maximum upload size",
			Action:  "Remove unused files or raise the server limit",
			Code:    "FEED001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "Feed exceeds the maximum upload size",
			Action:  "Remove unused files or raise the server limit",
			Code:    "FEED001",
		},
	},
	{
		pattern: "not a valid zip file",
		msg: UserMessage{
			Message: "The uploaded file is not a valid zip archive",
			Action:  "Upload the GTFS feed as a .zip file",
			Code:    "FEED002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No feed was provided",
			Action:  "Attach the feed as the \"file\" form field",
			Code:    "FEED003",
		},
	},
	{
		pattern: "read zip",
		msg: UserMessage{
			Message: "A file in the feed could not be read",
			Action:  "Check that the archive is not truncated or encrypted",
			Code:    "FEED004",
		},
	},
	{
		pattern: "zip: checksum error",
		msg: UserMessage{
			Message: "A file in the feed could not be read",
			Action:  "Check that the archive is not truncated or encrypted",
			Code:    "FEED004",
		},
	},
	{
		pattern: "unexpected eof",
		msg: UserMessage{
			Message: "A file in the feed could not be read",
			Action:  "Check that the archive is not truncated or encrypted",
			Code:    "FEED004",
		},
	},
	{
		pattern: "file not found in feed",
		msg: UserMessage{
			Message: "A file was not found in the feed",
			Action:  "Check the archive layout, files must be at the root",
			Code:    "FEED005",
		},
	},

	// =========================================================================
	// Run errors
	// =========================================================================
	{
		pattern: "too many concurrent validation runs",
		msg: UserMessage{
			Message: "Too many validations in progress",
			Action:  "Please wait a moment and try again",
			Code:    "RUN001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The validation was cancelled",
			Action:  "Submit the feed again when ready",
			Code:    "RUN002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The validation took too long",
			Action:  "Try again later or ask for a longer run timeout",
			Code:    "RUN003",
		},
	},
	{
		pattern: "unsatisfied validator dependency",
		msg: UserMessage{
			Message: "A validator needs a table the schema does not define",
			Action:  "Contact support, this is a server configuration problem",
			Code:    "RUN004",
		},
	},
	{
		pattern: "unknown validator",
		msg: UserMessage{
			Message: "A skipped or configured validator does not exist",
			Action:  "Check the validator names at /api/validators",
			Code:    "RUN005",
		},
	},

	// =========================================================================
	// Store errors
	// =========================================================================
	{
		pattern: "run not found",
		msg: UserMessage{
			Message: "No validation run with this ID",
			Action:  "Check the run ID, old runs may have been pruned",
			Code:    "STORE001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "STORE002",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "STORE003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Database operation timed out",
			Action:  "Please try again later",
			Code:    "STORE004",
		},
	},

	// =========================================================================
	// Request errors
	// =========================================================================
	{
		pattern: "invalid parameter",
		msg: UserMessage{
			Message: "A query parameter could not be parsed",
			Action:  "Check the parameter format, dates use YYYYMMDD",
			Code:    "REQ001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "REQ002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// Support staff should check the server logs for the original error when
// callers report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	msg := MapError(ErrTooManyRuns)
//	// msg.Code == "RUN001"
//	// msg.Message == "Too many validations in progress"
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

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging.
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
