package repository

import (
	"context"
	"time"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	// FindByID returns nil, nil when no appointment has the id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	// FindScheduledByDoctorBetween returns the doctor's scheduled appointments
	// starting in [from, to).
	FindScheduledByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error)
	// FindByDoctorBetween is FindScheduledByDoctorBetween without a status filter.
	FindByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error)
	// TransitionStatus moves an appointment from `from` to `to` only if it is
	// currently in `from`. Returns the number of rows changed (0 or 1).
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
	// TallyBySpecialtyBetween aggregates appointments of doctors with the
	// given specialty starting in [from, to) in a single pass.
	TallyBySpecialtyBetween(ctx context.Context, specialty entity.Specialty, from, to time.Time) (entity.WeeklyTally, error)
}
