package services

import (
	"errors"
	"fmt"
)

var (
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrAttemptNotFound = errors.New("attempt not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrStorageFailure  = errors.New("storage failure")
)

// PermissionError is a forbidden outcome: the caller is known but may
// not touch this resource.
type PermissionError struct {
	UserName string
	Resource string
	ID       uint
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %d: %s", e.UserName, e.Action, e.Resource, e.ID, e.Reason)
}

func NewPermissionError(userName, resource string, id uint, action, reason string) *PermissionError {
	return &PermissionError{
		UserName: userName,
		Resource: resource,
		ID:       id,
		Action:   action,
		Reason:   reason,
	}
}

func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
