package handler

import (
	"errors"
	"net/http"

	"clinic-scheduling/internal/usecase"
	"clinic-scheduling/pkg/response"
)

// writeError maps a usecase error onto the response envelope.
// Errors it does not recognize become 500 with fallback as the message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *usecase.ValidationError
	var storeErr *usecase.StoreError

	switch {
	case errors.As(err, &validationErr):
		violations := make([]response.RuleViolation, len(validationErr.Violations))
		for i, v := range validationErr.Violations {
			violations[i] = response.RuleViolation{Rule: string(v.Rule), Message: v.Message}
		}
		response.RuleViolations(w, violations)
	case errors.As(err, &storeErr):
		response.ServiceUnavailable(w, "Store unavailable, try again later")
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrAppointmentNotScheduled):
		response.Error(w, http.StatusConflict, "Appointment is not scheduled", nil)
	case errors.Is(err, usecase.ErrInvalidTimeFormat), errors.Is(err, usecase.ErrInvalidDate):
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
