package dto

import (
	"time"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
)

// AuditLogResponse es un evento del audit trail en la API.
type AuditLogResponse struct {
	ID        string         `json:"id"`
	UserID    *string        `json:"user_id,omitempty"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entity_id"`
	Detail    map[string]any `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewAuditLogResponse mapea la entidad de dominio al contrato JSON.
func NewAuditLogResponse(a *repository.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Action:    a.Action,
		Entity:    a.Entity,
		EntityID:  a.EntityID,
		Detail:    a.Detail,
		CreatedAt: a.CreatedAt,
	}
}

// AuditListResponse agrupa eventos de auditoría.
type AuditListResponse struct {
	Items []AuditLogResponse `json:"items"`
}
