package controllers

import (
	"net/http"

	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
	"github.com/dropDatabas3/staffdesk/internal/http/helpers"
	svc "github.com/dropDatabas3/staffdesk/internal/http/services/dashboard"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// DashboardController maneja el resumen operativo.
type DashboardController struct {
	service svc.Service
}

// NewDashboardController crea el controller del dashboard.
func NewDashboardController(service svc.Service) *DashboardController {
	return &DashboardController{service: service}
}

// Summary maneja GET /v1/dashboard.
func (c *DashboardController) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("DashboardController.Summary"))

	out, err := c.service.Summary(ctx)
	if err != nil {
		log.Error("error inesperado en dashboard", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}
