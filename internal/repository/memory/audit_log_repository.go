package memory

import (
	"context"
	"time"

	"clinic-scheduling/internal/domain/entity"
)

type auditLogRepository struct {
	store *Store
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.store.run(ctx, func() error {
		log.ID = int64(len(r.store.auditLogs) + 1)
		if log.CreatedAt.IsZero() {
			log.CreatedAt = time.Now()
		}
		r.store.auditLogs = append(r.store.auditLogs, *log)
		return nil
	})
}

func (r *auditLogRepository) FindAll(ctx context.Context, filter entity.AuditLogFilter) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	err := r.store.run(ctx, func() error {
		logs = make([]entity.AuditLog, 0, len(r.store.auditLogs))
		for i := len(r.store.auditLogs) - 1; i >= 0; i-- {
			if filter.Limit > 0 && len(logs) == filter.Limit {
				break
			}
			if filter.Action != "" && r.store.auditLogs[i].Action != filter.Action {
				continue
			}
			logs = append(logs, r.store.auditLogs[i])
		}
		return nil
	})
	return logs, err
}
