package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Quiz generation errors
	CodeInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"
	CodeNotReady             ErrorCode = "NOT_READY"
	CodeBackendError         ErrorCode = "BACKEND_ERROR"
	CodeMalformedJSON        ErrorCode = "MALFORMED_JSON"
	CodeSchemaViolation      ErrorCode = "SCHEMA_VIOLATION"
	CodeDuplicateQuestion    ErrorCode = "DUPLICATE_QUESTION"
	CodeSlotExhausted        ErrorCode = "SLOT_EXHAUSTED"
	CodeEmptyBank            ErrorCode = "EMPTY_BANK"
)

// Sentinels for errors.Is. A DomainError matches a sentinel when the codes are equal.
var (
	ErrInternal             = &DomainError{Code: CodeInternal}
	ErrInvalidInput         = &DomainError{Code: CodeInvalidInput}
	ErrNotFound             = &DomainError{Code: CodeNotFound}
	ErrInvalidConfiguration = &DomainError{Code: CodeInvalidConfiguration}
	ErrNotReady             = &DomainError{Code: CodeNotReady}
	ErrBackend              = &DomainError{Code: CodeBackendError}
	ErrMalformedJSON        = &DomainError{Code: CodeMalformedJSON}
	ErrSchemaViolation      = &DomainError{Code: CodeSchemaViolation}
	ErrDuplicateQuestion    = &DomainError{Code: CodeDuplicateQuestion}
	ErrSlotExhausted        = &DomainError{Code: CodeSlotExhausted}
	ErrEmptyBank            = &DomainError{Code: CodeEmptyBank}
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithContext attaches a key/value pair that is surfaced in API error details.
func (e *DomainError) WithContext(key string, value any) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Context map[string]any `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewInvalidConfigurationError(message string) *DomainError {
	return NewError(CodeInvalidConfiguration, message, nil)
}

func NewNotReadyError(message string, err error) *DomainError {
	return NewError(CodeNotReady, message, err)
}

func NewBackendError(err error) *DomainError {
	return NewError(CodeBackendError, "generation backend call failed", err)
}

func NewMalformedJSONError(err error) *DomainError {
	return NewError(CodeMalformedJSON, "backend output is not valid JSON", err)
}

func NewSchemaViolationError(message string) *DomainError {
	return NewError(CodeSchemaViolation, message, nil)
}

func NewDuplicateQuestionError(text string) *DomainError {
	return NewError(CodeDuplicateQuestion, "question text already in bank", nil).WithContext("question", text)
}

func NewSlotExhaustedError(slot, attempts int, last error) *DomainError {
	return NewError(CodeSlotExhausted, fmt.Sprintf("slot %d exhausted after %d attempts", slot, attempts), last)
}

func NewEmptyBankError() *DomainError {
	return NewError(CodeEmptyBank, "question bank is empty", nil)
}

// CodeOf returns the code of the first DomainError in err's chain, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsRetryable reports whether a per-attempt failure should consume one more attempt
// instead of aborting the run.
func IsRetryable(err error) bool {
	switch CodeOf(err) {
	case CodeBackendError, CodeMalformedJSON, CodeSchemaViolation, CodeDuplicateQuestion:
		return true
	default:
		return false
	}
}

// IsFatal reports whether err must abort a generation run.
func IsFatal(err error) bool {
	switch CodeOf(err) {
	case CodeInvalidConfiguration, CodeNotReady:
		return true
	default:
		return false
	}
}
