package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

const (
	// MinLeadTime is how far ahead of "now" an appointment must start.
	MinLeadTime = 30 * time.Minute
	// DurationStep is the granularity of appointment lengths, in minutes.
	DurationStep = 15
)

// Appointment is a patient visit booked against a doctor
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientName     string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_doctor_time" json:"doctor_id"`
	AppointmentTime time.Time         `gorm:"type:timestamptz;not null;index:idx_appointments_doctor_time" json:"appointment_time"`
	ReasonForVisit  string            `gorm:"type:text;not null" json:"reason_for_visit"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	DurationMinutes int               `gorm:"not null" json:"duration_minutes"`
	ClinicRoom      *string           `gorm:"type:varchar(50)" json:"clinic_room,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor *Doctor `gorm:"foreignKey:DoctorID;constraint:OnDelete:RESTRICT" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// End returns the instant the appointment finishes.
func (a *Appointment) End() time.Time {
	return a.AppointmentTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsScheduled checks if appointment is still on the books
func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

// Overlaps reports whether the appointment shares an instant with [start, end).
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return Overlaps(a.AppointmentTime, a.End(), start, end)
}

// Overlaps checks two half-open intervals [s1,e1) and [s2,e2).
// Touching intervals (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// ValidDuration reports whether minutes is a positive multiple of DurationStep.
func ValidDuration(minutes int) bool {
	return minutes > 0 && minutes%DurationStep == 0
}

// CanTransitionTo reports whether status may move to next.
// Only scheduled appointments can be completed or cancelled.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s != AppointmentStatusScheduled {
		return false
	}
	return next == AppointmentStatusCompleted || next == AppointmentStatusCancelled
}
