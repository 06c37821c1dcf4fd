package services

import (
	"errors"
	"fmt"
)

// Workflow error codes. Controllers map these to stable HTTP statuses;
// anything without a code is a 500.
const (
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeInvalidState            = "INVALID_STATE"
	CodeInvalidAmount           = "INVALID_AMOUNT"
	CodeNotFound                = "NOT_FOUND"
	CodeVersionConflict         = "VERSION_CONFLICT"
)

// WorkflowError represents a typed domain error from one of the
// workflow engines
type WorkflowError struct {
	Code    string
	Message string
}

func (e *WorkflowError) Error() string {
	return e.Message
}

// NewInvalidTransition reports a status target not reachable from the
// current status
func NewInvalidTransition(entity, from, to string) *WorkflowError {
	return &WorkflowError{
		Code:    CodeInvalidStatusTransition,
		Message: fmt.Sprintf("%s cannot transition from %s to %s", entity, from, to),
	}
}

// NewInvalidState reports an operation unsupported in the current status
func NewInvalidState(message string) *WorkflowError {
	return &WorkflowError{Code: CodeInvalidState, Message: message}
}

// NewInvalidAmount reports a monetary amount the operation cannot accept
func NewInvalidAmount(message string) *WorkflowError {
	return &WorkflowError{Code: CodeInvalidAmount, Message: message}
}

// NewNotFound reports a missing entity
func NewNotFound(entity string) *WorkflowError {
	return &WorkflowError{Code: CodeNotFound, Message: entity + " not found"}
}

// NewVersionConflict reports a lost optimistic-concurrency race: another
// writer updated the entity between our read and our write
func NewVersionConflict(entity string) *WorkflowError {
	return &WorkflowError{
		Code:    CodeVersionConflict,
		Message: entity + " was modified concurrently, reload and retry",
	}
}

// ErrorCode extracts the workflow error code from an error chain.
// Returns "" for non-workflow errors.
func ErrorCode(err error) string {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we.Code
	}
	return ""
}
