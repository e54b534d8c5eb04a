package errors

import (
	"fmt"
	"time"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeConflict   ErrorCode = "CONFLICT"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	ErrCodeForbidden  ErrorCode = "FORBIDDEN"

	// Draw lifecycle errors
	ErrCodeDuplicateCommitment   ErrorCode = "DUPLICATE_COMMITMENT"
	ErrCodeSeedNotFound          ErrorCode = "SEED_NOT_FOUND"
	ErrCodeDrawAlreadyConducted  ErrorCode = "DRAW_ALREADY_CONDUCTED"
	ErrCodeInvalidDrawParameters ErrorCode = "INVALID_DRAW_PARAMETERS"
	ErrCodeVerificationInput     ErrorCode = "VERIFICATION_INPUT_ERROR"
	ErrCodeEntropyUnavailable    ErrorCode = "EXTERNAL_ENTROPY_UNAVAILABLE"

	// Infrastructure errors
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
)

// AppError is the typed application error carried across layers.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the error represents a missing resource.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound || e.Code == ErrCodeSeedNotFound
}

// IsConflict reports whether the error represents a state conflict.
func (e *AppError) IsConflict() bool {
	return e.Code == ErrCodeConflict ||
		e.Code == ErrCodeDuplicateCommitment ||
		e.Code == ErrCodeDrawAlreadyConducted
}

// IsValidation reports whether the error represents rejected input.
func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation ||
		e.Code == ErrCodeBadRequest ||
		e.Code == ErrCodeInvalidDrawParameters
}

// WithDetail attaches structured detail to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRequestID tags the error with the originating request id.
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with an application error code.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// NewDuplicateCommitmentError signals that a live commitment already exists.
func NewDuplicateCommitmentError(raffleID string) *AppError {
	return New(ErrCodeDuplicateCommitment, fmt.Sprintf("a live commitment already exists for raffle %s", raffleID)).
		WithDetail("raffle_id", raffleID)
}

// NewSeedNotFoundError signals a reveal attempt with no matching commitment.
func NewSeedNotFoundError(raffleID string) *AppError {
	return New(ErrCodeSeedNotFound, fmt.Sprintf("no committed seed found for raffle %s", raffleID)).
		WithDetail("raffle_id", raffleID)
}

// NewDrawAlreadyConductedError signals a replayed draw attempt.
func NewDrawAlreadyConductedError(raffleID string) *AppError {
	return New(ErrCodeDrawAlreadyConducted, fmt.Sprintf("draw already conducted for raffle %s", raffleID)).
		WithDetail("raffle_id", raffleID)
}

// NewInvalidDrawParametersError signals rejected draw parameters.
func NewInvalidDrawParametersError(reason string) *AppError {
	return New(ErrCodeInvalidDrawParameters, fmt.Sprintf("invalid draw parameters: %s", reason)).
		WithDetail("reason", reason)
}

// NewVerificationInputError signals a missing or malformed audit record.
func NewVerificationInputError(reason string) *AppError {
	return New(ErrCodeVerificationInput, fmt.Sprintf("verification input error: %s", reason)).
		WithDetail("reason", reason)
}

// NewStorageError wraps a failed storage operation.
func NewStorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorage, fmt.Sprintf("storage operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewNotFoundError creates a generic "not found" error.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// AsAppError extracts an AppError from err if it carries one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
