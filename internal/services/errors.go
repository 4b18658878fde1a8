package services

import (
	"errors"
	"fmt"
)

// ===== SENTINEL ERRORS =====

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrResultNotFound     = errors.New("result not found")
	ErrSessionNotFound    = errors.New("taking session not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")

	ErrAlreadySubmitted    = errors.New("assessment already submitted")
	ErrSessionInProgress   = errors.New("taking session already in progress")
	ErrAssessmentNotOpen   = errors.New("assessment is not open for taking")
	ErrAssessmentNotEnded  = errors.New("assessment has not ended yet")
	ErrNotAssigned         = errors.New("student is not assigned to this assessment")
	ErrAssessmentHasEnded  = errors.New("assessment window has ended")
	ErrAssessmentUpcoming  = errors.New("assessment has not started yet")
	ErrTaskAlreadyComplete = errors.New("task is already completed")
)

// ===== STRUCTURED ERRORS =====

// ValidationError wraps request validation failures with the offending
// details.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError wraps err as a validation failure.
func NewValidationError(message string, err error) *ValidationError {
	return &ValidationError{Message: message, Err: err}
}

// PermissionError records who tried what on which resource.
type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

// NewPermissionError builds a PermissionError.
func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsValidationError reports whether err is a request validation
// failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPermissionError reports whether err is a permission denial.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
