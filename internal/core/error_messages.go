// # Error Codes Reference
//
// This file maps failures of the service itself (not rule violations in a
// workbook, which carry their own VAL001-VAL008 codes on each
// ValidationError) to user-friendly messages with a code that can be quoted
// to support.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: upload exceeds the configured size limit
//	          Patterns: "file too large", "request body too large"
//
//	FILE002 - Invalid workbook: bytes are not a readable xlsx file
//	          Patterns: "invalid xlsx format"
//
//	FILE003 - No file: the request carried no file
//	          Patterns: "no file provided"
//
//	FILE004 - Empty file: the uploaded file has no content
//	          Patterns: "empty file"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - System busy: every validation slot is taken
//	         Patterns: "too many concurrent validations"
//
//	UPL002 - Request cancelled
//	         Patterns: "context canceled"
//
//	UPL003 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Validation Request Errors (VAL009-VAL099)
//
//	VAL009 - Unknown mode: mode is neither report nor identifier
//	         Patterns: "unknown validation mode"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Run not found: the run id is unknown or has expired
//	         Patterns: "validation run not found"
//
//	RUN002 - Nothing to correct: the workbook passed validation
//	         Patterns: "no validation errors to mark"
//
//	RUN003 - History unavailable: the history store could not be read
//	         Patterns: "history store"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Returned when no pattern matches; the original error is in the logs.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unused sheets or rows and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unused sheets or rows and try again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid xlsx format",
		msg: UserMessage{
			Message: "File is not a readable Excel workbook",
			Action:  "Save the file as .xlsx and upload it again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select an .xlsx workbook to validate",
			Code:    "FILE003",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a workbook with a header row and data",
			Code:    "FILE004",
		},
	},

	// Upload errors
	{
		pattern: "too many concurrent validations",
		msg: UserMessage{
			Message: "System is busy validating other workbooks",
			Action:  "Please wait a moment and try again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller workbook or check your connection",
			Code:    "UPL003",
		},
	},

	// Request errors
	{
		pattern: "unknown validation mode",
		msg: UserMessage{
			Message: "Unknown validation mode",
			Action:  "Use mode=report for full reports or mode=identifier for asset-only workbooks",
			Code:    "VAL009",
		},
	},

	// Run errors
	{
		pattern: "validation run not found",
		msg: UserMessage{
			Message: "Validation run not found",
			Action:  "The run may have expired. Please validate the file again",
			Code:    "RUN001",
		},
	},
	{
		pattern: "no validation errors to mark",
		msg: UserMessage{
			Message: "The workbook passed validation",
			Action:  "There is nothing to correct",
			Code:    "RUN002",
		},
	},
	{
		pattern: "history store",
		msg: UserMessage{
			Message: "Validation history is unavailable",
			Action:  "Please try again later",
			Code:    "RUN003",
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
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Unmatched
// errors map to ERR000.
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

// FormatUserError formats err as "Message (Code: XXX). Action".
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
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. It returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
