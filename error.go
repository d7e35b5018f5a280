package postpdf

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINVALID    = "invalid"
	EINVALIDURL = "invalid_url"
	ESHAPE      = "unrecognized_shape"
	ETIMEOUT    = "timeout"
	ENOTFOUND   = "not_found"
	ELAUNCH     = "browser_launch"
	ERENDER     = "render"
	EINTERNAL   = "internal"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("postpdf error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Retryable reports whether err belongs to the "try again later" category.
// Input errors and unconvertible content are never retryable.
func Retryable(err error) bool {
	switch ErrorCode(err) {
	case ETIMEOUT, ELAUNCH:
		return true
	default:
		return false
	}
}
