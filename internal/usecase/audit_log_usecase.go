package usecase

import (
	"context"

	"clinic-scheduling/internal/converter"
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// maxAuditLogs caps a single listing.
const maxAuditLogs = 500

type AuditLogUsecase interface {
	ListAuditLogs(ctx context.Context, req *dto.AuditLogQuery) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) ListAuditLogs(ctx context.Context, req *dto.AuditLogQuery) (*dto.AuditLogListResponse, error) {
	filter := entity.AuditLogFilter{Action: req.Action, Limit: req.Limit}
	if filter.Limit <= 0 || filter.Limit > maxAuditLogs {
		filter.Limit = maxAuditLogs
	}

	logs, err := u.auditLogRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list audit logs: %+v", err)
		return nil, storeError("list audit logs", err)
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
