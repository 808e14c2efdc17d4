package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Fern error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"   // 400
	ErrInvalidCategory ErrorCode = "INVALID_CATEGORY"  // 400
	ErrNoRecentCapture ErrorCode = "NO_RECENT_CAPTURE" // 404
	ErrNotFound        ErrorCode = "NOT_FOUND"         // 404
	ErrNarrationFailed ErrorCode = "NARRATION_FAILED"  // 502
	ErrInternal        ErrorCode = "INTERNAL"          // 500
)

// FernError represents a structured error with code, status, and details.
type FernError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *FernError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *FernError {
	return &FernError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidCategory creates a 400 error naming the valid category set.
func NewInvalidCategory(got string, valid []string) *FernError {
	return &FernError{
		Code:    ErrInvalidCategory,
		Status:  400,
		Message: fmt.Sprintf("unknown category %q; valid categories: %v", got, valid),
		Details: map[string]any{"category": got, "valid": valid},
	}
}

// NewNoRecentCapture creates a 404 error for when the audit log holds no
// capture attributable to the given user.
func NewNoRecentCapture(userID string) *FernError {
	return &FernError{
		Code:    ErrNoRecentCapture,
		Status:  404,
		Message: fmt.Sprintf("no recent captures found for user %q", userID),
		Details: map[string]any{"user": userID},
	}
}

// NewNotFound creates a 404 error for when a document cannot be located.
func NewNotFound(filename string) *FernError {
	return &FernError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("document not found: %s", filename),
		Details: map[string]any{"filename": filename},
	}
}

// NewNarrationFailed creates a 502 error for a failed narration call.
func NewNarrationFailed(detail string) *FernError {
	return &FernError{
		Code:    ErrNarrationFailed,
		Status:  502,
		Message: fmt.Sprintf("narration failed: %s", detail),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *FernError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &FernError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a FernError with the given code.
func Is(err error, code ErrorCode) bool {
	var fErr *FernError
	if stderrors.As(err, &fErr) {
		return fErr.Code == code
	}
	return false
}
