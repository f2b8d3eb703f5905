package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/repository"

	"github.com/google/uuid"
)

type appointmentRepository struct {
	store *Store
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return r.store.run(ctx, func() error {
		if _, ok := r.store.doctors[appointment.DoctorID]; !ok {
			return fmt.Errorf("%w (appointments_doctor_id_fkey)", repository.ErrMissingReference)
		}
		if appointment.ID == uuid.Nil {
			appointment.ID = uuid.New()
		}
		if _, ok := r.store.appointments[appointment.ID]; ok {
			return fmt.Errorf("%w (appointments_pkey)", repository.ErrDuplicate)
		}
		if appointment.Status == "" {
			appointment.Status = entity.AppointmentStatusScheduled
		}
		now := time.Now()
		if appointment.CreatedAt.IsZero() {
			appointment.CreatedAt = now
		}
		appointment.UpdatedAt = now
		row := *appointment
		row.Doctor = nil
		r.store.appointments[appointment.ID] = row
		return nil
	})
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var found *entity.Appointment
	err := r.store.run(ctx, func() error {
		a, ok := r.store.appointments[id]
		if !ok {
			return nil
		}
		if d, ok := r.store.doctors[a.DoctorID]; ok {
			a.Doctor = &d
		}
		found = &a
		return nil
	})
	return found, err
}

func (r *appointmentRepository) FindScheduledByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	return r.filter(ctx, func(a *entity.Appointment) bool {
		return a.DoctorID == doctorID && a.IsScheduled() && inRange(a.AppointmentTime, from, to)
	})
}

func (r *appointmentRepository) FindByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	return r.filter(ctx, func(a *entity.Appointment) bool {
		return a.DoctorID == doctorID && inRange(a.AppointmentTime, from, to)
	})
}

func (r *appointmentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	var affected int64
	err := r.store.run(ctx, func() error {
		a, ok := r.store.appointments[id]
		if !ok || a.Status != from {
			return nil
		}
		a.Status = to
		a.UpdatedAt = time.Now()
		r.store.appointments[id] = a
		affected = 1
		return nil
	})
	return affected, err
}

func (r *appointmentRepository) TallyBySpecialtyBetween(ctx context.Context, specialty entity.Specialty, from, to time.Time) (entity.WeeklyTally, error) {
	var tally entity.WeeklyTally
	err := r.store.run(ctx, func() error {
		for _, a := range r.store.appointments {
			d, ok := r.store.doctors[a.DoctorID]
			if !ok || d.Specialty != specialty || !inRange(a.AppointmentTime, from, to) {
				continue
			}
			tally.Add(&a)
		}
		return nil
	})
	return tally, err
}

func (r *appointmentRepository) filter(ctx context.Context, keep func(a *entity.Appointment) bool) ([]entity.Appointment, error) {
	var out []entity.Appointment
	err := r.store.run(ctx, func() error {
		for _, a := range r.store.appointments {
			if keep(&a) {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].AppointmentTime.Before(out[j].AppointmentTime)
	})
	return out, err
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
