package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dropDatabas3/staffdesk/internal/http/dto"
	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
	"github.com/dropDatabas3/staffdesk/internal/http/helpers"
	"github.com/dropDatabas3/staffdesk/internal/http/middlewares"
	svc "github.com/dropDatabas3/staffdesk/internal/http/services/employees"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// EmployeesController maneja el CRUD de fichas de empleado.
type EmployeesController struct {
	service svc.Service
}

// NewEmployeesController crea el controller de empleados.
func NewEmployeesController(service svc.Service) *EmployeesController {
	return &EmployeesController{service: service}
}

// List maneja GET /v1/employees?department=&search=&limit=&offset=.
func (c *EmployeesController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("EmployeesController.List"))

	limit, offset := helpers.Pagination(r, 20)
	out, err := c.service.List(ctx, svc.ListParams{
		Search:     r.URL.Query().Get("search"),
		Department: r.URL.Query().Get("department"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// Get maneja GET /v1/employees/{id}.
func (c *EmployeesController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("EmployeesController.Get"))

	emp, err := c.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, emp)
}

// Create maneja POST /v1/employees.
func (c *EmployeesController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("EmployeesController.Create"))

	var req dto.CreateEmployeeRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	actorID, _ := middlewares.GetUserID(ctx)
	emp, err := c.service.Create(ctx, actorID, req)
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, emp)
}

// Update maneja PUT /v1/employees/{id}.
func (c *EmployeesController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("EmployeesController.Update"))

	var req dto.UpdateEmployeeRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	actorID, _ := middlewares.GetUserID(ctx)
	emp, err := c.service.Update(ctx, actorID, chi.URLParam(r, "id"), req)
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, emp)
}

// Deactivate maneja DELETE /v1/employees/{id}. Baja lógica, no borra.
func (c *EmployeesController) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("EmployeesController.Deactivate"))

	actorID, _ := middlewares.GetUserID(ctx)
	if err := c.service.Deactivate(ctx, actorID, chi.URLParam(r, "id")); err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteNoContent(w)
}

func (c *EmployeesController) handleError(w http.ResponseWriter, err error, log *zap.Logger) {
	switch {
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrEmployeeNotFound)
	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrEmailAlreadyInUse)
	default:
		log.Error("error inesperado en employees", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
