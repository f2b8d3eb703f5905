package dto

import (
	"time"

	"clinic-scheduling/internal/domain/entity"
)

// Request DTOs

// AuditLogQuery is read from the query string of GET /audit-logs.
type AuditLogQuery struct {
	Action string `json:"action" validate:"omitempty,oneof=doctor.admit appointment.schedule appointment.complete appointment.cancel"`
	Limit  int    `json:"limit" validate:"gte=0,lte=500"`
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64       `json:"id"`
	Action    string      `json:"action"`
	Entity    string      `json:"entity,omitempty"`
	EntityID  string      `json:"entity_id,omitempty"`
	Metadata  entity.JSON `json:"metadata"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
