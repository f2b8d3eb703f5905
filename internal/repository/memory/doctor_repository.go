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

type doctorRepository struct {
	store *Store
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	return r.store.run(ctx, func() error {
		if doctor.ID == uuid.Nil {
			doctor.ID = uuid.New()
		}
		if _, ok := r.store.doctors[doctor.ID]; ok {
			return fmt.Errorf("%w (doctors_pkey)", repository.ErrDuplicate)
		}
		for _, d := range r.store.doctors {
			if d.Email == doctor.Email {
				return fmt.Errorf("%w (idx_doctors_email)", repository.ErrDuplicate)
			}
		}
		if doctor.CreatedAt.IsZero() {
			doctor.CreatedAt = time.Now()
		}
		row := *doctor
		row.Appointments = nil
		r.store.doctors[doctor.ID] = row
		return nil
	})
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	var found *entity.Doctor
	err := r.store.run(ctx, func() error {
		if d, ok := r.store.doctors[id]; ok {
			found = &d
		}
		return nil
	})
	return found, err
}

// FindByIDForUpdate needs no extra locking: transactions already hold the store lock.
func (r *doctorRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	return r.FindByID(ctx, id)
}

func (r *doctorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	email = entity.NormalizeEmail(email)
	var exists bool
	err := r.store.run(ctx, func() error {
		for _, d := range r.store.doctors {
			if d.Email == email {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, err
}

func (r *doctorRepository) FindAll(ctx context.Context) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := r.store.run(ctx, func() error {
		doctors = make([]entity.Doctor, 0, len(r.store.doctors))
		for _, d := range r.store.doctors {
			doctors = append(doctors, d)
		}
		return nil
	})
	sort.Slice(doctors, func(i, j int) bool {
		if doctors[i].LastName != doctors[j].LastName {
			return doctors[i].LastName < doctors[j].LastName
		}
		return doctors[i].FirstName < doctors[j].FirstName
	})
	return doctors, err
}
