package services

import (
	"errors"
	"fmt"

	"github.com/guided-platform/matching-service/internal/models"
	"github.com/guided-platform/matching-service/internal/validator"
)

// Sentinel errors mapped to HTTP status codes by the handlers.
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrMentorNotFound  = errors.New("mentor not found")
	ErrInviteNotFound  = errors.New("invite not found")
	ErrUserNotFound    = errors.New("user not found")

	// ErrDuplicateInvite means an invite already exists for the pair. The
	// caller gets the existing invite back; this is recoverable, never a 500.
	ErrDuplicateInvite = errors.New("invite already exists for this pair")

	// ErrMentorAtCapacity means the mentor already holds max_students
	// confirmed relationships.
	ErrMentorAtCapacity = errors.New("mentor is at capacity")
)

// Validation errors reuse the validator package's types so handler mapping
// stays uniform.
type ValidationError = validator.ValidationError
type ValidationErrors = validator.ValidationErrors

// NewValidationError creates a single-field validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    "business_logic",
	}
}

// PermissionError indicates the actor may not perform the operation
type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID string `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %s: %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IllegalTransitionError indicates an invite lifecycle action that is not
// allowed from the invite's current status.
type IllegalTransitionError struct {
	InviteID string              `json:"invite_id"`
	Status   models.InviteStatus `json:"status"`
	Actor    models.InviteActor  `json:"actor"`
	Action   models.InviteAction `json:"action"`
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("invite %s: %s cannot %s from status %s",
		e.InviteID, e.Actor, e.Action, e.Status)
}

func NewIllegalTransitionError(inviteID string, status models.InviteStatus, actor models.InviteActor, action models.InviteAction) *IllegalTransitionError {
	return &IllegalTransitionError{
		InviteID: inviteID,
		Status:   status,
		Actor:    actor,
		Action:   action,
	}
}

// IsIllegalTransition reports whether err is a lifecycle violation
func IsIllegalTransition(err error) bool {
	var ite *IllegalTransitionError
	return errors.As(err, &ite)
}
