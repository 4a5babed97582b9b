// Package errors defines the structured error type used throughout the module.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies failures for targeted handling.
type Code string

const (
	CodeMemoryAllocation       Code = "memory-allocation"
	CodeInvalidArgument        Code = "invalid-argument"
	CodeFileOpen               Code = "file-open"
	CodeFileParse              Code = "file-parse"
	CodeUnsupportedCodecSchema Code = "unsupported-codec-schema"
	CodeIncompleteCapabilities Code = "incomplete-capabilities"
	CodeCodecLoadFailed        Code = "codec-load-failed"
	CodeBrokenImage            Code = "broken-image"
	CodeUnsupportedPixelFormat Code = "unsupported-pixel-format"
	CodeNoMoreFrames           Code = "no-more-frames"
	CodeNotImplemented         Code = "not-implemented"
	CodeUnderlyingCodec        Code = "underlying-codec"
)

// Error is the structured error type returned by every failing operation.
type Error struct {
	Code Code
	Op   string // operation name, e.g. "registry.build"
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Op)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given code and operation.
func New(code Code, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// Newf creates an Error wrapping a formatted message.
func Newf(code Code, op string, format string, args ...interface{}) *Error {
	return &Error{Code: code, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap wraps an existing error with code and operation context.
// Returns nil if err is nil.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(code, op, err)
}

// CodeOf extracts the Code from err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// IsNoMoreFrames reports whether err is the expected frame-iteration
// terminator. Well-behaved loops stop on it without treating it as a failure.
func IsNoMoreFrames(err error) bool {
	return IsCode(err, CodeNoMoreFrames)
}

// Sentinel errors for common failure modes.
var (
	ErrNilStream      = errors.New("nil stream")
	ErrNilImage       = errors.New("nil image")
	ErrStateFinished  = errors.New("state already finished")
	ErrOutOfOrderCall = errors.New("call out of permitted order")
	ErrUnexpectedEOF  = errors.New("unexpected end of stream")
)
