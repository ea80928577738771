// Package auditlog expone la consulta del audit trail para ADMIN.
package auditlog

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/http/dto"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Deps contiene las dependencias del servicio.
type Deps struct {
	Audit repository.AuditRepository
}

// Service expone la lectura del audit trail.
type Service interface {
	// ListRecent retorna los últimos eventos, más reciente primero.
	// limit fuera de rango se ajusta a [1, 200] con default 50.
	ListRecent(ctx context.Context, limit int) (dto.AuditListResponse, error)
}

type service struct {
	deps Deps
}

// New crea el servicio de auditoría.
func New(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) ListRecent(ctx context.Context, limit int) (dto.AuditListResponse, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	rows, err := s.deps.Audit.ListRecent(ctx, limit)
	if err != nil {
		return dto.AuditListResponse{}, fmt.Errorf("listar auditoría: %w", err)
	}

	out := dto.AuditListResponse{Items: make([]dto.AuditLogResponse, 0, len(rows))}
	for i := range rows {
		out.Items = append(out.Items, dto.NewAuditLogResponse(&rows[i]))
	}
	return out, nil
}
