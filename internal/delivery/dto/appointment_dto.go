package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientName     string    `json:"patient_name"`
	DoctorID        uuid.UUID `json:"doctor_id"`
	AppointmentTime time.Time `json:"appointment_time" validate:"required"` // RFC 3339
	ReasonForVisit  string    `json:"reason_for_visit"`
	DurationMinutes int       `json:"duration_minutes"`
	ClinicRoom      *string   `json:"clinic_room" validate:"omitempty,max=50"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID       `json:"id"`
	PatientName     string          `json:"patient_name"`
	DoctorID        uuid.UUID       `json:"doctor_id"`
	Doctor          *DoctorResponse `json:"doctor,omitempty"`
	AppointmentTime time.Time       `json:"appointment_time"`
	EndTime         time.Time       `json:"end_time"`
	ReasonForVisit  string          `json:"reason_for_visit"`
	Status          string          `json:"status"`
	DurationMinutes int             `json:"duration_minutes"`
	ClinicRoom      *string         `json:"clinic_room,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
