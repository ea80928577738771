package repository

import (
	"context"
	"time"
)

// AuditLog es una fila del audit trail. Detail va a JSONB.
type AuditLog struct {
	ID        string
	UserID    *string // nil para eventos de sistema
	Action    string  // "employee.create", "leave.decide", ...
	Entity    string  // "employee", "leave", "payroll", "user"
	EntityID  string
	Detail    map[string]any
	CreatedAt time.Time
}

// InsertAuditInput contiene los datos de un evento de auditoría.
type InsertAuditInput struct {
	UserID   *string
	Action   string
	Entity   string
	EntityID string
	Detail   map[string]any
}

// AuditRepository define las operaciones sobre el audit trail.
// Sólo se insertan y listan filas; nunca se mutan.
type AuditRepository interface {
	// Insert agrega un evento.
	Insert(ctx context.Context, in InsertAuditInput) (*AuditLog, error)

	// ListRecentByUser retorna hasta limit eventos del usuario, más
	// reciente primero.
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]AuditLog, error)

	// ListRecent retorna hasta limit eventos globales, más reciente
	// primero.
	ListRecent(ctx context.Context, limit int) ([]AuditLog, error)
}
