// Package errors provides structured error types for amlfed.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library callers
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - Modeling codes (CYCLE_DETECTED, NAMESPACE_COLLISION, ...): a change
//     rejected by the federation engine
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidManifest, "document %d has no location", i)
//	if errors.Is(err, errors.ErrCodeInvalidManifest) {
//	    // Handle validation error
//	}
//
//	// Classify engine errors
//	err = errors.FromModel(g.AddExplicitReference(a, b))
//	if errors.Is(err, errors.ErrCodeCycleDetected) { ... }
package errors

import (
	"errors"
	"fmt"

	"github.com/matzehuels/amlfed/pkg/federation"
	"github.com/matzehuels/amlfed/pkg/workspace"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidLocation Code = "INVALID_LOCATION"
	ErrCodeInvalidName     Code = "INVALID_NAME"
	ErrCodeInvalidKind     Code = "INVALID_KIND"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"
	ErrCodeDocumentNotFound Code = "DOCUMENT_NOT_FOUND"
	ErrCodeUnresolved       Code = "UNRESOLVED"

	// Modeling errors reported by the federation engine
	ErrCodeCycleDetected        Code = "CYCLE_DETECTED"
	ErrCodeNamespaceCollision   Code = "NAMESPACE_COLLISION"
	ErrCodeIdentifierCollision  Code = "IDENTIFIER_COLLISION"
	ErrCodeDocumentInUse        Code = "DOCUMENT_IN_USE"
	ErrCodeLocationRegistered   Code = "LOCATION_REGISTERED"
	ErrCodeSelfReference        Code = "SELF_REFERENCE"
	ErrCodeUnknownReference     Code = "UNKNOWN_REFERENCE"
	ErrCodeReferenceRequired    Code = "REFERENCE_REQUIRED"
	ErrCodeNotExplicitReference Code = "NOT_EXPLICITLY_REFERENCED"
	ErrCodeInUse                Code = "IN_USE"
	ErrCodeConflict             Code = "CONFLICT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// modelCodes maps engine and workspace sentinels onto codes.
var modelCodes = []struct {
	sentinel error
	code     Code
	message  string
}{
	{federation.ErrCycleDetected, ErrCodeCycleDetected, "reference rejected"},
	{federation.ErrIdentifierCollision, ErrCodeIdentifierCollision, "change rejected"},
	{federation.ErrNamespaceCollision, ErrCodeNamespaceCollision, "change rejected"},
	{federation.ErrReferencedDocumentStillInUse, ErrCodeDocumentInUse, "cannot close document"},
	{federation.ErrLocationAlreadyRegistered, ErrCodeLocationRegistered, "cannot open document"},
	{federation.ErrSelfReference, ErrCodeSelfReference, "reference rejected"},
	{federation.ErrUnknownReference, ErrCodeUnknownReference, "cannot remove reference"},
	{federation.ErrUnknownDocument, ErrCodeDocumentNotFound, "document not found"},
	{federation.ErrInvalidLocation, ErrCodeInvalidLocation, "cannot open document"},
	{federation.ErrInvalidKind, ErrCodeInvalidKind, "invalid kind"},
	{workspace.ErrReferenceRequired, ErrCodeReferenceRequired, "cannot remove reference"},
	{workspace.ErrNotExplicitlyReferenced, ErrCodeNotExplicitReference, "pointer rejected"},
	{workspace.ErrUnresolved, ErrCodeUnresolved, "pointer rejected"},
	{workspace.ErrInvalidName, ErrCodeInvalidName, "invalid name"},
	{workspace.ErrLibraryInUse, ErrCodeInUse, "cannot remove library"},
	{workspace.ErrElementInUse, ErrCodeInUse, "cannot remove element"},
	{workspace.ErrLibraryExists, ErrCodeConflict, "library exists"},
	{workspace.ErrElementExists, ErrCodeConflict, "element exists"},
	{workspace.ErrUnknownLibrary, ErrCodeNotFound, "library not found"},
	{workspace.ErrUnknownElement, ErrCodeNotFound, "element not found"},
	{workspace.ErrUnknownPointer, ErrCodeNotFound, "pointer not found"},
}

// FromModel wraps an error returned by the federation engine or a workspace
// in an *Error carrying the matching code. The original error stays in the
// chain, so errors.As still finds *federation.CycleError and
// *federation.CollisionError. Errors that already carry a code, unknown
// errors and nil are returned unchanged.
func FromModel(err error) error {
	if err == nil || GetCode(err) != "" {
		return err
	}
	for _, m := range modelCodes {
		if errors.Is(err, m.sentinel) {
			return Wrap(m.code, err, "%s", m.message)
		}
	}
	return err
}

// IsModeling reports whether err is a change rejected by the federation
// engine because it would break acyclicity or namespace uniqueness.
func IsModeling(err error) bool {
	switch GetCode(err) {
	case ErrCodeCycleDetected, ErrCodeNamespaceCollision, ErrCodeIdentifierCollision:
		return true
	}
	return false
}
