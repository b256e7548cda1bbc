package errorx

import (
	"errors"
	"fmt"
)

// CodeError is an error carrying a business code.
// It supports wrapping an underlying cause and works with errors.Is/errors.As.
type CodeError struct {
	Code  int    // business code
	Msg   string // message shown to the caller
	cause error  // wrapped underlying error
}

// Error implements the error interface. With a cause present the output is
// "msg: cause", otherwise just the message.
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap exposes the cause to errors.Is/errors.As.
func (e *CodeError) Unwrap() error {
	return e.cause
}

// New creates a CodeError without a cause.
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf creates a CodeError with a formatted message.
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode extracts the business code from an error chain, defaulting to
// CodeServerBusy for plain errors.
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// Business codes.
const (
	CodeSuccess      = 1000
	CodeInvalidParam = 1001
	CodeServerBusy   = 1005
	CodeUnauthorized = 1006
	CodeNotFound     = 1008
	CodeConflict     = 1009 // stale revision / duplicate create
	CodeDBError      = 1010
	CodeCacheError   = 1011
)

// Predefined instances, usable directly or with errors.Is.
var (
	ErrInvalidParam = New(CodeInvalidParam, "invalid request parameter")
	ErrServerBusy   = New(CodeServerBusy, "server busy")
	ErrUnauthorized = New(CodeUnauthorized, "unauthorized")
)

// IsNotFound reports whether the error chain represents a missing record,
// including gorm.ErrRecordNotFound surfaced through wrapDBError.
func IsNotFound(err error) bool {
	var codeErr *CodeError
	if errors.As(err, &codeErr) && codeErr.Code == CodeNotFound {
		return true
	}
	return err != nil && err.Error() == "record not found"
}
