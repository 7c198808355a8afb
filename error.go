package askdoc

import (
	"errors"
	"fmt"
)

// Application error codes. These map roughly to HTTP-style categories
// but are transport-agnostic: implementations translate collaborator
// failures into these codes at the boundary.
const (
	ECONFLICT    = "conflict"     // content hash collision with differing content
	EINTERNAL    = "internal"     // unexpected internal error
	EINVALID     = "invalid"      // validation or parse failure
	ENOTFOUND    = "not_found"    // entity does not exist
	ERATELIMITED = "rate_limited" // collaborator throttling, retryable with backoff
	EUNAVAILABLE = "unavailable"  // network failure, timeout, or non-2xx response
)

// Error represents an application error with a machine-readable code
// and a human-readable message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("askdoc error: code=%s message=%s", e.Code, e.Message)
}

// Errorf constructs an Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode returns the code of the error, if it is an *Error.
// Returns EINTERNAL for non-application errors and "" for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the error, if it is an *Error.
// Returns a generic message for non-application errors and "" for nil.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
