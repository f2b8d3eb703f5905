package usecase

import (
	"errors"
	"fmt"
	"strings"

	"clinic-scheduling/internal/domain/entity"
)

var (
	ErrDoctorNotFound          = errors.New("doctor not found")
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentNotScheduled = errors.New("appointment is not scheduled")
	ErrInvalidTimeFormat       = errors.New("invalid time format, use HH:MM")
	ErrInvalidDate             = errors.New("invalid date format, use YYYY-MM-DD")
)

// ValidationError is the normal failure outcome of an admission: one or more
// business rules were broken and nothing was written.
type ValidationError struct {
	Violations []entity.Violation
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages returns the violation messages in check order.
func (e *ValidationError) Messages() []string {
	messages := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		messages[i] = v.Message
	}
	return messages
}

// Has reports whether rule is among the violations.
func (e *ValidationError) Has(rule entity.Rule) bool {
	for _, v := range e.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

// StoreError is an infrastructure failure: the store or the admission lock
// was unavailable, timed out, or rejected a write. Any transaction in
// progress has been rolled back. It is not retried here.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
