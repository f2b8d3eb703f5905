package repository

import (
	"context"

	"clinic-scheduling/internal/domain/entity"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	// FindAll returns matching entries, newest first.
	FindAll(ctx context.Context, filter entity.AuditLogFilter) ([]entity.AuditLog, error)
}
