package pdpmcp

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are shared across the whole application and map every failure mode
// onto a small, stable taxonomy so the MCP and CLI layers can translate
// errors without inspecting internals.
const (
	ECONVERSION  = "conversion"  // content could not be parsed or converted
	EINTERNAL    = "internal"    // internal error (bug)
	EINVALID     = "invalid"     // validation failed, no network call made
	ENOTFOUND    = "not_found"   // page does not exist (4xx from the portal)
	EUNAVAILABLE = "unavailable" // transient network failure, retries exhausted
	EUPSTREAM    = "upstream"    // Search/Related API returned an error or malformed response
)

// Error represents an application-specific error. Errors can be unwrapped to
// inspect the code and message programmatically.
type Error struct {
	// Code is one of the application error codes above.
	Code string

	// Message is a human-readable description safe to surface to callers.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("pdpmcp error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode returns the code of the error, if available; EINTERNAL otherwise.
// Returns the empty string for a nil error.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the error, if available. Non-application
// errors report a generic message so internals never leak to callers.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
