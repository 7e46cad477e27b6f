// Package errors provides the standardized error kinds of the activities API
// and their mapping onto HTTP responses.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode is a stable, machine-readable error identifier.
type ErrorCode string

const (
	ErrCodeActivityNotFound ErrorCode = "ACTIVITY_NOT_FOUND"
	ErrCodeAlreadySignedUp  ErrorCode = "ALREADY_SIGNED_UP"
	ErrCodeNotSignedUp      ErrorCode = "NOT_SIGNED_UP"
	ErrCodeActivityFull     ErrorCode = "ACTIVITY_FULL"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// Error kinds. Every StandardError unwraps to exactly one of these.
var (
	ErrNotFound       = stderrors.New("NOT_FOUND")
	ErrInvalidRequest = stderrors.New("INVALID_REQUEST")
	ErrInvalidInput   = stderrors.New("INVALID_INPUT")
	ErrInternal       = stderrors.New("INTERNAL")
)

// StandardError is a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	kind error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.kind
}

// HTTPStatus returns the response status for the error.
func (e *StandardError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

func newError(kind error, code ErrorCode, message, details string, metadata map[string]interface{}) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
		kind:      kind,
	}
}

// NewActivityNotFoundError reports a name with no registry entry.
func NewActivityNotFoundError(activityName string) *StandardError {
	return newError(ErrNotFound, ErrCodeActivityNotFound,
		"Activity not found",
		fmt.Sprintf("activity: %s", activityName),
		map[string]interface{}{"activity": activityName},
	)
}

// NewAlreadySignedUpError reports a duplicate enrollment.
func NewAlreadySignedUpError(activityName, email string) *StandardError {
	return newError(ErrInvalidRequest, ErrCodeAlreadySignedUp,
		"Student is already signed up for this activity",
		fmt.Sprintf("activity: %s, email: %s", activityName, email),
		map[string]interface{}{"activity": activityName, "email": email},
	)
}

// NewNotSignedUpError reports removal of a non-participant.
func NewNotSignedUpError(activityName, email string) *StandardError {
	return newError(ErrInvalidRequest, ErrCodeNotSignedUp,
		"Student is not signed up for this activity",
		fmt.Sprintf("activity: %s, email: %s", activityName, email),
		map[string]interface{}{"activity": activityName, "email": email},
	)
}

// NewActivityFullError is only produced when capacity enforcement is enabled.
func NewActivityFullError(activityName string, capacity int) *StandardError {
	return newError(ErrInvalidRequest, ErrCodeActivityFull,
		"Activity is full",
		fmt.Sprintf("activity: %s, max_participants: %d", activityName, capacity),
		map[string]interface{}{"activity": activityName, "maxParticipants": capacity},
	)
}

// NewInvalidInputError reports a malformed or missing request parameter.
func NewInvalidInputError(field, message string) *StandardError {
	return newError(ErrInvalidInput, ErrCodeInvalidInput,
		message,
		fmt.Sprintf("field: %s", field),
		map[string]interface{}{"field": field},
	)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	e := newError(ErrInternal, ErrCodeInternal, "Internal server error", details, nil)
	e.Retryable = true
	return e
}

// HTTPStatus maps an error code to its response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeActivityNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadySignedUp, ErrCodeNotSignedUp, ErrCodeActivityFull:
		return http.StatusBadRequest
	case ErrCodeInvalidInput:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "SIGNED_UP") || strings.Contains(codeStr, "FULL"):
		return "BUSINESS_RULE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "INTERNAL"
	}
}

// Normalize returns err as a *StandardError, wrapping unknown errors as internal.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}
