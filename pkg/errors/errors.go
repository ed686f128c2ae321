// Package errors provides structured error handling for stratum
package errors

import (
	"errors"
	"runtime"

	stringpool "github.com/stratumdata/stratum/pkg/strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeArity represents a row whose cell count differs from the header length
	ErrorTypeArity ErrorType = "arity"
	// ErrorTypeInvalidHeader represents a header token that is not a plain string
	ErrorTypeInvalidHeader ErrorType = "invalid_header"
	// ErrorTypeColumnNotFound represents a failed name- or index-based column lookup
	ErrorTypeColumnNotFound ErrorType = "column_not_found"
	// ErrorTypeRange represents invalid start/end bounds for a row-range selection
	ErrorTypeRange ErrorType = "range"
	// ErrorTypeHeaderMismatch represents appending a table whose header differs
	ErrorTypeHeaderMismatch ErrorType = "header_mismatch"
	// ErrorTypeConversion represents a typed cell accessed as a different type
	ErrorTypeConversion ErrorType = "conversion"
	// ErrorTypeFile represents file operation errors
	ErrorTypeFile ErrorType = "file"
	// ErrorTypeFormat represents serialization/deserialization errors
	ErrorTypeFormat ErrorType = "format"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return stringpool.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: stringpool.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsRecoverable returns true if the error is one of the recoverable data
// errors a caller is expected to handle, as opposed to an internal failure.
func IsRecoverable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	switch e.Type {
	case ErrorTypeArity, ErrorTypeInvalidHeader, ErrorTypeColumnNotFound,
		ErrorTypeRange, ErrorTypeHeaderMismatch, ErrorTypeConversion:
		return true
	default:
		return false
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
