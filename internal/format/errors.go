package format

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated indicates input ended before a field or terminator was complete.
	ErrTruncated = errors.New("format: truncated input")
	// ErrBadMagic indicates the file does not start with the expected signature.
	ErrBadMagic = errors.New("format: signature mismatch")
	// ErrStringTooLong indicates a null-terminated string exceeded MaxStringLen.
	ErrStringTooLong = errors.New("format: string exceeds maximum length")
	// ErrNegativeCount indicates a count field held a negative value.
	ErrNegativeCount = errors.New("format: negative count")
	// ErrOffsetRange indicates an offset would overflow or go negative after shifting.
	ErrOffsetRange = errors.New("format: offset out of range")
)

// FileOpenError reports an input that cannot be read or an output that cannot
// be created.
type FileOpenError struct {
	Path  string
	Op    string // "open", "create", "reopen", "rename"
	Cause error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *FileOpenError) Unwrap() error { return e.Cause }

// FormatError reports a malformed or truncated structure.
type FormatError struct {
	Field  string
	Offset int64
	Cause  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error in %s at offset %d: %v", e.Field, e.Offset, e.Cause)
}

func (e *FormatError) Unwrap() error { return e.Cause }

// AnchorNotFoundError reports that an edit referenced a key that is not in
// the attribute list.
type AnchorNotFoundError struct {
	Op  string
	Key string
}

func (e *AnchorNotFoundError) Error() string {
	return fmt.Sprintf("%s: attribute %q not found", e.Op, e.Key)
}

// InvalidArgumentError reports a malformed edit directive or option.
type InvalidArgumentError struct {
	Arg     string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Arg == "" {
		return "invalid argument: " + e.Message
	}
	return fmt.Sprintf("invalid argument %q: %s", e.Arg, e.Message)
}

// IOError reports a read, write or seek failure on a specific field.
type IOError struct {
	Op     string // "read", "write", "seek", "copy", "sync"
	Field  string
	Offset int64
	Cause  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s at offset %d: %v", e.Op, e.Field, e.Offset, e.Cause)
}

func (e *IOError) Unwrap() error { return e.Cause }
