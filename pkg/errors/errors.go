// Package errors provides typed errors for ctxpack
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// ErrConfig indicates a configuration error
	ErrConfig ErrorType = iota
	// ErrScan indicates a file-tree scanning error
	ErrScan
	// ErrNotFound indicates an operation referenced a path absent from the
	// current node map (stale reference after a tree refresh)
	ErrNotFound
	// ErrIgnoredTarget indicates an explicit toggle was requested on an
	// ignored node
	ErrIgnoredTarget
	// ErrInvalidConfig indicates invalid chunking input (non-positive token
	// budget or totals)
	ErrInvalidConfig
	// ErrAssemble indicates a context assembly error
	ErrAssemble
	// ErrSession indicates a session persistence error
	ErrSession
	// ErrClipboard indicates a clipboard export error
	ErrClipboard
)

// PackError is the base error type for all ctxpack errors
type PackError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns the error message
func (e *PackError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", errorTypeString(e.Type), e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", errorTypeString(e.Type), e.Message)
}

// Unwrap returns the underlying cause
func (e *PackError) Unwrap() error {
	return e.Cause
}

// New creates a new PackError
func New(errType ErrorType, message string, cause error) *PackError {
	return &PackError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *PackError) WithContext(key string, value interface{}) *PackError {
	e.Context[key] = value
	return e
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var packErr *PackError
	if err == nil {
		return false
	}
	if errors.As(err, &packErr) {
		return packErr.Type == errType
	}
	return false
}

// errorTypeString returns a human-readable name for an error type
func errorTypeString(t ErrorType) string {
	switch t {
	case ErrConfig:
		return "CONFIG"
	case ErrScan:
		return "SCAN"
	case ErrNotFound:
		return "NOT_FOUND"
	case ErrIgnoredTarget:
		return "IGNORED_TARGET"
	case ErrInvalidConfig:
		return "INVALID_CONFIG"
	case ErrAssemble:
		return "ASSEMBLE"
	case ErrSession:
		return "SESSION"
	case ErrClipboard:
		return "CLIPBOARD"
	default:
		return "UNKNOWN"
	}
}

// NotFound creates a stale-path error
func NotFound(path string) *PackError {
	return New(ErrNotFound, fmt.Sprintf("path not in current tree: %s", path), nil)
}

// IgnoredTarget creates an ignored-target rejection
func IgnoredTarget(path string) *PackError {
	return New(ErrIgnoredTarget, fmt.Sprintf("node is ignored and cannot be toggled: %s", path), nil)
}

// ConfigError creates a configuration error
func ConfigError(message string, cause error) *PackError {
	return New(ErrConfig, message, cause)
}

// ScanError creates a scanning error
func ScanError(message string, cause error) *PackError {
	return New(ErrScan, message, cause)
}

// AssembleError creates a context assembly error
func AssembleError(message string, cause error) *PackError {
	return New(ErrAssemble, message, cause)
}

// SessionError creates a session persistence error
func SessionError(message string, cause error) *PackError {
	return New(ErrSession, message, cause)
}

// ClipboardError creates a clipboard export error
func ClipboardError(message string, cause error) *PackError {
	return New(ErrClipboard, message, cause)
}
