package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateDoctorRequest only checks shape here; business rules are reported
// together by the registry.
type CreateDoctorRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Specialty   string `json:"specialty"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	ShiftStart  string `json:"shift_start" validate:"required,clock"` // Format: HH:MM
	ShiftEnd    string `json:"shift_end" validate:"required,clock"`   // Format: HH:MM
}

// Response DTOs

type DoctorResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Specialty   string    `json:"specialty"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	ShiftStart  string    `json:"shift_start"`
	ShiftEnd    string    `json:"shift_end"`
	CreatedAt   time.Time `json:"created_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
