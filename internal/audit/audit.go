// Package audit registra eventos de negocio en el audit trail.
//
// El registro es best-effort: si el insert falla se loguea y la
// operación de negocio sigue su curso. Un audit caído no puede
// bloquear un alta de empleado.
package audit

import (
	"context"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// Recorder persiste eventos en el AuditRepository.
type Recorder struct {
	repo repository.AuditRepository
}

// NewRecorder arma un Recorder sobre el repositorio dado.
func NewRecorder(repo repository.AuditRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record inserta un evento. userID nil marca eventos de sistema.
func (r *Recorder) Record(ctx context.Context, userID *string, action, entity, entityID string, detail map[string]any) {
	if r == nil || r.repo == nil {
		return
	}
	_, err := r.repo.Insert(ctx, repository.InsertAuditInput{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	})
	if err != nil {
		logger.From(ctx).Warn("no se pudo registrar el evento de auditoría",
			logger.Component("audit"),
			logger.String("action", action),
			logger.String("entity", entity),
			logger.Err(err),
		)
	}
}
