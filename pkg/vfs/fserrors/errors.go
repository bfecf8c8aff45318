// Package fserrors provides the error kinds surfaced by the virtual
// filesystem. This is a leaf package with no internal dependencies so the
// store, router and façade can all import it without cycles.
//
// The kinds are logical: they are not bound to errno values or HTTP status
// codes. Mappings to transport-level codes live at the respective boundary
// (see pkg/api).
package fserrors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the kind of filesystem error that occurred.
type ErrorCode int

const (
	// ErrNotFound indicates the addressed entry does not exist.
	ErrNotFound ErrorCode = iota + 1

	// ErrAlreadyExists indicates an entry of a conflicting kind already
	// occupies the path.
	ErrAlreadyExists

	// ErrNotAFile indicates a file operation was attempted on a directory.
	ErrNotAFile

	// ErrNotADirectory indicates a directory operation was attempted on a file.
	ErrNotADirectory

	// ErrNotEmpty indicates a non-recursive remove hit a non-empty directory.
	ErrNotEmpty

	// ErrParentMissing indicates the parent path does not resolve to an
	// existing directory.
	ErrParentMissing

	// ErrRecursionRequired indicates a directory operation needs the
	// recursive flag.
	ErrRecursionRequired

	// ErrUnsupportedDataType indicates an unknown payload encoding.
	ErrUnsupportedDataType
)

// String returns the canonical name of the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrNotFound:
		return "NotFound"
	case ErrAlreadyExists:
		return "AlreadyExists"
	case ErrNotAFile:
		return "NotAFile"
	case ErrNotADirectory:
		return "NotADirectory"
	case ErrNotEmpty:
		return "NotEmpty"
	case ErrParentMissing:
		return "ParentMissing"
	case ErrRecursionRequired:
		return "RecursionRequired"
	case ErrUnsupportedDataType:
		return "UnsupportedDataType"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// StoreError is a filesystem error carrying its kind and the path it
// concerns. Messages are human-readable; callers branch on Code.
type StoreError struct {
	Code    ErrorCode
	Message string
	Path    string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path: %s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed.
// Returns 0 when err carries no StoreError.
func CodeOf(err error) ErrorCode {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// Is reports whether err carries the given error code.
func Is(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// NewNotFound creates a NotFound error for path.
func NewNotFound(path string) *StoreError {
	return &StoreError{Code: ErrNotFound, Message: "no such file or directory", Path: path}
}

// NewAlreadyExists creates an AlreadyExists error for path.
func NewAlreadyExists(path string) *StoreError {
	return &StoreError{Code: ErrAlreadyExists, Message: "entry already exists", Path: path}
}

// NewNotAFile creates a NotAFile error for path.
func NewNotAFile(path string) *StoreError {
	return &StoreError{Code: ErrNotAFile, Message: "is a directory", Path: path}
}

// NewNotADirectory creates a NotADirectory error for path.
func NewNotADirectory(path string) *StoreError {
	return &StoreError{Code: ErrNotADirectory, Message: "not a directory", Path: path}
}

// NewNotEmpty creates a NotEmpty error for path.
func NewNotEmpty(path string) *StoreError {
	return &StoreError{Code: ErrNotEmpty, Message: "directory not empty", Path: path}
}

// NewParentMissing creates a ParentMissing error for path.
func NewParentMissing(path string) *StoreError {
	return &StoreError{Code: ErrParentMissing, Message: "parent directory does not exist", Path: path}
}

// NewRecursionRequired creates a RecursionRequired error for path.
func NewRecursionRequired(path string) *StoreError {
	return &StoreError{Code: ErrRecursionRequired, Message: "is a directory, recursive flag required", Path: path}
}

// NewUnsupportedDataType creates an UnsupportedDataType error for the
// given encoding name.
func NewUnsupportedDataType(encoding string) *StoreError {
	return &StoreError{Code: ErrUnsupportedDataType, Message: fmt.Sprintf("unsupported encoding %q", encoding)}
}
