package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/http/dto"
	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
	"github.com/dropDatabas3/staffdesk/internal/http/helpers"
	"github.com/dropDatabas3/staffdesk/internal/http/middlewares"
	svc "github.com/dropDatabas3/staffdesk/internal/http/services/payrolls"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// PayrollsController maneja las liquidaciones de sueldo.
type PayrollsController struct {
	service svc.Service
}

// NewPayrollsController crea el controller de liquidaciones.
func NewPayrollsController(service svc.Service) *PayrollsController {
	return &PayrollsController{service: service}
}

// List maneja GET /v1/payrolls. Un empleado ve solo lo suyo; RRHH y
// ADMIN pueden filtrar con ?period= y ?employeeId=.
func (c *PayrollsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PayrollsController.List"))

	userID, _ := middlewares.GetUserID(ctx)
	role, _ := middlewares.GetRole(ctx)

	var (
		out dto.PayrollListResponse
		err error
	)
	if role == repository.RoleAdmin || role == repository.RoleHR {
		q := r.URL.Query()
		period := q.Get("period")
		if period != "" && !dto.ValidPeriod(period) {
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("period debe ser YYYY-MM"))
			return
		}
		out, err = c.service.ListAll(ctx, q.Get("employeeId"), period)
	} else {
		out, err = c.service.ListOwn(ctx, userID)
	}
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// Get maneja GET /v1/payrolls/{id}.
func (c *PayrollsController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PayrollsController.Get"))

	p, err := c.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, p)
}

// Create maneja POST /v1/payrolls. La liquidación nace en DRAFT.
func (c *PayrollsController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PayrollsController.Create"))

	var req dto.CreatePayrollRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	actorID, _ := middlewares.GetUserID(ctx)
	p, err := c.service.Create(ctx, actorID, req)
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, p)
}

// Issue maneja POST /v1/payrolls/{id}/issue.
func (c *PayrollsController) Issue(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, "PayrollsController.Issue", c.service.Issue)
}

// Pay maneja POST /v1/payrolls/{id}/pay.
func (c *PayrollsController) Pay(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, "PayrollsController.Pay", c.service.Pay)
}

func (c *PayrollsController) transition(w http.ResponseWriter, r *http.Request, op string, fn func(ctx context.Context, actorID, id string) (*dto.PayrollResponse, error)) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op(op))

	actorID, _ := middlewares.GetUserID(ctx)
	p, err := fn(ctx, actorID, chi.URLParam(r, "id"))
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, p)
}

func (c *PayrollsController) handleError(w http.ResponseWriter, err error, log *zap.Logger) {
	switch {
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrPayrollNotFound)
	case errors.Is(err, svc.ErrEmployeeNotFound):
		httperrors.WriteError(w, httperrors.ErrEmployeeNotFound)
	case errors.Is(err, svc.ErrPeriodTaken):
		httperrors.WriteError(w, httperrors.ErrPayrollPeriodTaken)
	case errors.Is(err, svc.ErrInvalidTransition):
		httperrors.WriteError(w, httperrors.ErrInvalidTransition)
	default:
		log.Error("error inesperado en payrolls", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
