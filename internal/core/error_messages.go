package core

// error_messages.go maps transport-level errors to user-friendly messages with
// codes for support reference. Pipeline failures never reach this table; they
// already carry their own fixed message in Result.Message.
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid form: The request could not be read
//	         Patterns: "invalid form", "invalid json"
//
//	REQ002 - Invalid separator: Separator must be "," or "|"
//	         Patterns: "invalid separator"
//
//	REQ003 - Invalid quoting: Quoting must be "No" or "Yes"
//	         Patterns: "invalid quoting"
//
//	REQ004 - Request too large: The upload exceeds the size limit
//	         Patterns: "request body too large", "file too large"
//
// # Conversion Errors (CNV001-CNV099)
//
//	CNV001 - System busy: Too many conversions in progress
//	         Patterns: "too many concurrent conversions"
//
//	CNV002 - Request timeout: The conversion took too long
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// Patterns are matched case-insensitively with strings.Contains. The first
// matching pattern wins.

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

var errorPatterns = []errorPattern{
	{
		pattern: "invalid form",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Reload the page and try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "invalid json",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Send a JSON object with the documented fields",
			Code:    "REQ001",
		},
	},
	{
		pattern: "invalid separator",
		msg: UserMessage{
			Message: "Unsupported separator",
			Action:  `Choose "," or "|"`,
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid quoting",
		msg: UserMessage{
			Message: "Unsupported quoting option",
			Action:  `Choose "No" or "Yes"`,
			Code:    "REQ003",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The upload exceeds the size limit",
			Action:  "Split the file into smaller parts",
			Code:    "REQ004",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "The upload exceeds the size limit",
			Action:  "Split the file into smaller parts",
			Code:    "REQ004",
		},
	},
	{
		pattern: "too many concurrent conversions",
		msg: UserMessage{
			Message: "Too many conversions in progress",
			Action:  "Please wait a moment and try again",
			Code:    "CNV001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The conversion took too long",
			Action:  "Try a smaller file or try again later",
			Code:    "CNV002",
		},
	},
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
	Action:  "Please try again",
	Code:    "ERR000",
}

// MapError converts a technical error into a user-friendly message.
// Returns an empty UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	lower := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(lower, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
