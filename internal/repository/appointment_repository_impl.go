package repository

import (
	"context"
	"errors"
	"time"

	"clinic-scheduling/internal/domain/entity"
	domainRepo "clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return translate(conn(ctx, r.db).Omit("Doctor").Create(appointment).Error)
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := conn(ctx, r.db).Preload("Doctor").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindScheduledByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := conn(ctx, r.db).
		Where("doctor_id = ? AND status = ? AND appointment_time >= ? AND appointment_time < ?",
			doctorID, entity.AppointmentStatusScheduled, from, to).
		Order("appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := conn(ctx, r.db).
		Where("doctor_id = ? AND appointment_time >= ? AND appointment_time < ?", doctorID, from, to).
		Order("appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// TransitionStatus atomically changes the status ONLY if the row is still in `from`.
// Returns affected rows: 1 = success, 0 = missing or already moved (prevents double-transition race).
func (r *appointmentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

// TallyBySpecialtyBetween computes scheduled minutes and the completed and
// cancelled counts with one conditional aggregation over the doctor join.
func (r *appointmentRepository) TallyBySpecialtyBetween(ctx context.Context, specialty entity.Specialty, from, to time.Time) (entity.WeeklyTally, error) {
	var tally entity.WeeklyTally
	err := conn(ctx, r.db).Model(&entity.Appointment{}).
		Select(`
			COALESCE(SUM(CASE WHEN appointments.status = ? THEN appointments.duration_minutes ELSE 0 END), 0) AS scheduled_minutes,
			COUNT(CASE WHEN appointments.status = ? THEN 1 END) AS completed_count,
			COUNT(CASE WHEN appointments.status = ? THEN 1 END) AS cancelled_count
		`, entity.AppointmentStatusScheduled, entity.AppointmentStatusCompleted, entity.AppointmentStatusCancelled).
		Joins("JOIN doctors ON doctors.id = appointments.doctor_id").
		Where("doctors.specialty = ?", specialty).
		Where("appointments.appointment_time >= ? AND appointments.appointment_time < ?", from, to).
		Scan(&tally).Error
	if err != nil {
		return entity.WeeklyTally{}, err
	}
	return tally, nil
}
