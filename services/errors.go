package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ValidationError rejects malformed or missing input before any availability
// state is read.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a referenced room type, group or reservation that does
// not exist.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// CapacityError carries every offending date and room type of a failed
// availability check, not just the first.
type CapacityError struct {
	Errors  []string
	Details []BlockDetail
}

func (e *CapacityError) Error() string {
	if len(e.Errors) == 0 {
		return "requested rooms exceed availability"
	}
	return e.Errors[0]
}

// ConflictError marks duplicate-key races and attempts to act on a group in
// a terminal state.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// notFoundOr maps a gorm record-not-found failure to a NotFoundError and
// passes every other error through.
func notFoundOr(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}
