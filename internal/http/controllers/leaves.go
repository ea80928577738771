package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/http/dto"
	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
	"github.com/dropDatabas3/staffdesk/internal/http/helpers"
	"github.com/dropDatabas3/staffdesk/internal/http/middlewares"
	svc "github.com/dropDatabas3/staffdesk/internal/http/services/leaves"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// LeavesController maneja las solicitudes de licencia.
type LeavesController struct {
	service svc.Service
}

// NewLeavesController crea el controller de licencias.
func NewLeavesController(service svc.Service) *LeavesController {
	return &LeavesController{service: service}
}

// List maneja GET /v1/leaves. Un empleado ve solo lo suyo; RRHH y
// ADMIN ven todo y pueden filtrar con ?status= y ?employeeId=.
func (c *LeavesController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LeavesController.List"))

	userID, _ := middlewares.GetUserID(ctx)
	role, _ := middlewares.GetRole(ctx)

	var (
		out dto.LeaveListResponse
		err error
	)
	if role == repository.RoleAdmin || role == repository.RoleHR {
		q := r.URL.Query()
		out, err = c.service.ListAll(ctx, q.Get("status"), q.Get("employeeId"), helpers.QueryInt(r, "limit", 0))
	} else {
		out, err = c.service.ListOwn(ctx, userID)
	}
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// Create maneja POST /v1/leaves. La solicitud queda siempre asociada a
// la ficha del usuario autenticado.
func (c *LeavesController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LeavesController.Create"))

	var req dto.CreateLeaveRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	userID, _ := middlewares.GetUserID(ctx)
	leave, err := c.service.Create(ctx, userID, req)
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, leave)
}

// Decide maneja PATCH /v1/leaves/{id}/status.
func (c *LeavesController) Decide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LeavesController.Decide"))

	var req dto.DecideLeaveRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	deciderID, _ := middlewares.GetUserID(ctx)
	leave, err := c.service.Decide(ctx, deciderID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, leave)
}

func (c *LeavesController) handleError(w http.ResponseWriter, err error, log *zap.Logger) {
	switch {
	case errors.Is(err, svc.ErrNoEmployeeRecord):
		httperrors.WriteError(w, httperrors.ErrEmployeeNotFound.WithDetail("el usuario no tiene ficha de empleado"))
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrLeaveNotFound)
	case errors.Is(err, svc.ErrInvalidTransition):
		httperrors.WriteError(w, httperrors.ErrInvalidTransition)
	default:
		log.Error("error inesperado en leaves", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
