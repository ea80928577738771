// Package leaves maneja el ciclo de vida de las solicitudes de
// licencia: alta por el propio empleado, decisión por RRHH y listados.
//
// La única transición legal sale de PENDING; los estados APPROVED,
// REJECTED y CANCELLED son terminales.
package leaves

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/staffdesk/internal/audit"
	"github.com/dropDatabas3/staffdesk/internal/cache"
	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/email"
	"github.com/dropDatabas3/staffdesk/internal/http/dto"
	"github.com/dropDatabas3/staffdesk/internal/http/services/dashboard"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// Errores del servicio de licencias.
var (
	ErrNoEmployeeRecord  = fmt.Errorf("user has no employee record")
	ErrNotFound          = fmt.Errorf("leave request not found")
	ErrInvalidTransition = fmt.Errorf("illegal status transition")
)

const defaultListLimit = 50

// Deps contiene las dependencias del servicio.
type Deps struct {
	Leaves    repository.LeaveRepository
	Employees repository.EmployeeRepository
	Cache     *cache.Cache
	Audit     *audit.Recorder
	Email     email.Sender
	BaseURL   string
}

// Service expone las operaciones sobre licencias.
type Service interface {
	// Create da de alta una solicitud PENDING para la ficha del usuario.
	Create(ctx context.Context, userID string, in dto.CreateLeaveRequest) (*dto.LeaveResponse, error)

	// Decide aplica APPROVED/REJECTED/CANCELLED sobre una solicitud
	// PENDING y avisa por correo al empleado.
	Decide(ctx context.Context, deciderID, leaveID, status string) (*dto.LeaveResponse, error)

	// ListOwn lista las solicitudes de la ficha del usuario.
	ListOwn(ctx context.Context, userID string) (dto.LeaveListResponse, error)

	// ListAll lista con filtros opcionales de estado y empleado (RRHH).
	ListAll(ctx context.Context, status, employeeID string, limit int) (dto.LeaveListResponse, error)
}

type service struct {
	deps Deps
}

// New crea el servicio de licencias.
func New(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) Create(ctx context.Context, userID string, in dto.CreateLeaveRequest) (*dto.LeaveResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("leaves"),
		logger.Op("Create"),
		logger.UserID(userID),
	)

	// Paso 1: la solicitud se crea sobre la ficha propia.
	emp, err := s.deps.Employees.GetByUserID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNoEmployeeRecord
		}
		return nil, fmt.Errorf("resolver empleado: %w", err)
	}

	// Paso 2: persistir en PENDING.
	start, end := in.Dates()
	leave, err := s.deps.Leaves.Create(ctx, repository.CreateLeaveInput{
		EmployeeID: emp.ID,
		Kind:       in.Kind,
		StartDate:  start,
		EndDate:    end,
		Reason:     in.Reason,
	})
	if err != nil {
		return nil, fmt.Errorf("crear solicitud: %w", err)
	}

	// Paso 3: invalidar el dashboard (cambia el conteo de pendientes).
	dashboard.Invalidate(s.deps.Cache)

	// Paso 4: auditar.
	s.deps.Audit.Record(ctx, &userID, "leave.request", "leave", leave.ID, map[string]any{
		"kind": leave.Kind,
		"from": in.StartDate,
		"to":   in.EndDate,
	})

	log.Info("solicitud creada", logger.LeaveID(leave.ID))
	resp := dto.NewLeaveResponse(leave)
	return &resp, nil
}

func (s *service) Decide(ctx context.Context, deciderID, leaveID, status string) (*dto.LeaveResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("leaves"),
		logger.Op("Decide"),
		logger.LeaveID(leaveID),
	)

	// Paso 1: la solicitud tiene que existir y estar PENDING.
	leave, err := s.deps.Leaves.GetByID(ctx, leaveID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("buscar solicitud: %w", err)
	}
	if leave.Status != repository.LeavePending {
		log.Debug("transición rechazada",
			logger.String("from", leave.Status),
			logger.String("to", status),
		)
		return nil, ErrInvalidTransition
	}

	// Paso 2: persistir la decisión.
	decided, err := s.deps.Leaves.SetStatus(ctx, leaveID, status, deciderID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("guardar decisión: %w", err)
	}

	// Paso 3: invalidar dashboard y auditar.
	dashboard.Invalidate(s.deps.Cache)
	s.deps.Audit.Record(ctx, &deciderID, "leave.decide", "leave", decided.ID, map[string]any{
		"status": decided.Status,
	})

	// Paso 4: avisar al empleado, best-effort.
	s.sendDecisionEmail(ctx, decided)

	log.Info("solicitud decidida", logger.String("status", decided.Status))
	resp := dto.NewLeaveResponse(decided)
	return &resp, nil
}

func (s *service) ListOwn(ctx context.Context, userID string) (dto.LeaveListResponse, error) {
	emp, err := s.deps.Employees.GetByUserID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			// Usuario sin ficha: lista vacía, mismo criterio que las
			// notificaciones.
			return dto.LeaveListResponse{Items: []dto.LeaveResponse{}}, nil
		}
		return dto.LeaveListResponse{}, fmt.Errorf("resolver empleado: %w", err)
	}

	rows, err := s.deps.Leaves.ListByEmployee(ctx, emp.ID)
	if err != nil {
		return dto.LeaveListResponse{}, fmt.Errorf("listar solicitudes: %w", err)
	}
	return leaveList(rows), nil
}

func (s *service) ListAll(ctx context.Context, status, employeeID string, limit int) (dto.LeaveListResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}

	// Con empleado se lista su historial y el estado filtra en memoria;
	// sin empleado resuelve el índice por estado.
	if employeeID != "" {
		rows, err := s.deps.Leaves.ListByEmployee(ctx, employeeID)
		if err != nil {
			return dto.LeaveListResponse{}, fmt.Errorf("listar solicitudes: %w", err)
		}
		filtered := make([]repository.LeaveRequest, 0, len(rows))
		for _, l := range rows {
			if status == "" || l.Status == status {
				filtered = append(filtered, l)
			}
		}
		if len(filtered) > limit {
			filtered = filtered[:limit]
		}
		return leaveList(filtered), nil
	}

	rows, err := s.deps.Leaves.ListByStatus(ctx, status, limit)
	if err != nil {
		return dto.LeaveListResponse{}, fmt.Errorf("listar solicitudes: %w", err)
	}
	return leaveList(rows), nil
}

func leaveList(rows []repository.LeaveRequest) dto.LeaveListResponse {
	out := dto.LeaveListResponse{Items: make([]dto.LeaveResponse, 0, len(rows))}
	for i := range rows {
		out.Items = append(out.Items, dto.NewLeaveResponse(&rows[i]))
	}
	return out
}

func (s *service) sendDecisionEmail(ctx context.Context, leave *repository.LeaveRequest) {
	if s.deps.Email == nil {
		return
	}
	emp, err := s.deps.Employees.GetByID(ctx, leave.EmployeeID)
	if err != nil || emp.Email == "" {
		return
	}
	msg, err := email.RenderLeaveDecided(emp.Email, email.LeaveDecidedVars{
		Name:      emp.FullName(),
		Kind:      leave.Kind,
		Status:    leave.Status,
		StartDate: leave.StartDate.Format(dto.DateLayout),
		EndDate:   leave.EndDate.Format(dto.DateLayout),
		BaseURL:   s.deps.BaseURL,
	})
	if err != nil {
		logger.From(ctx).Warn("no se pudo armar el correo de decisión", logger.Err(err))
		return
	}
	if err := s.deps.Email.Send(ctx, msg); err != nil {
		logger.From(ctx).Warn("no se pudo enviar el correo de decisión",
			logger.LeaveID(leave.ID),
			logger.Err(err),
		)
	}
}
