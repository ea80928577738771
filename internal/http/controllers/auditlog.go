package controllers

import (
	"net/http"

	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
	"github.com/dropDatabas3/staffdesk/internal/http/helpers"
	svc "github.com/dropDatabas3/staffdesk/internal/http/services/auditlog"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// AuditLogController expone el audit trail a los administradores.
type AuditLogController struct {
	service svc.Service
}

// NewAuditLogController crea el controller de auditoría.
func NewAuditLogController(service svc.Service) *AuditLogController {
	return &AuditLogController{service: service}
}

// List maneja GET /v1/audit-logs?limit=.
func (c *AuditLogController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuditLogController.List"))

	out, err := c.service.ListRecent(ctx, helpers.QueryInt(r, "limit", 0))
	if err != nil {
		log.Error("error inesperado en audit-logs", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}
