package repository

import (
	"context"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	// FindByID returns nil, nil when no doctor has the id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	// FindByIDForUpdate is FindByID holding a row lock until the surrounding
	// transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context) ([]entity.Doctor, error)
}
