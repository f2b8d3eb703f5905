package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
)

// AuditLogsToResponses converts audit entries, lifting the audited entity out of the metadata
func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i, log := range logs {
		name, _ := log.Metadata["entity"].(string)
		id, _ := log.Metadata["entity_id"].(string)
		responses[i] = dto.AuditLogResponse{
			ID:        log.ID,
			Action:    log.Action,
			Entity:    name,
			EntityID:  id,
			Metadata:  log.Metadata,
			CreatedAt: log.CreatedAt,
		}
	}
	return responses
}
