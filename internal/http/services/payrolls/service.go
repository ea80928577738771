// Package payrolls administra las liquidaciones de sueldo y su ciclo
// DRAFT → ISSUED → PAID. El par (empleado, período) es único.
package payrolls

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/staffdesk/internal/audit"
	"github.com/dropDatabas3/staffdesk/internal/cache"
	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/http/dto"
	"github.com/dropDatabas3/staffdesk/internal/http/services/dashboard"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// Errores del servicio de liquidaciones.
var (
	ErrNotFound          = fmt.Errorf("payroll not found")
	ErrEmployeeNotFound  = fmt.Errorf("employee not found")
	ErrPeriodTaken       = fmt.Errorf("period already liquidated for employee")
	ErrInvalidTransition = fmt.Errorf("illegal status transition")
)

// Deps contiene las dependencias del servicio.
type Deps struct {
	Payrolls  repository.PayrollRepository
	Employees repository.EmployeeRepository
	Cache     *cache.Cache
	Audit     *audit.Recorder

	// Now permite congelar el reloj en tests. nil = time.Now.
	Now func() time.Time
}

// Service expone las operaciones sobre liquidaciones.
type Service interface {
	// Create da de alta una liquidación en DRAFT.
	Create(ctx context.Context, actorID string, in dto.CreatePayrollRequest) (*dto.PayrollResponse, error)

	// Issue pasa DRAFT → ISSUED y fija IssuedAt.
	Issue(ctx context.Context, actorID, id string) (*dto.PayrollResponse, error)

	// Pay pasa ISSUED → PAID.
	Pay(ctx context.Context, actorID, id string) (*dto.PayrollResponse, error)

	// Get retorna una liquidación puntual.
	Get(ctx context.Context, id string) (*dto.PayrollResponse, error)

	// ListOwn lista las liquidaciones de la ficha del usuario.
	ListOwn(ctx context.Context, userID string) (dto.PayrollListResponse, error)

	// ListAll lista por empleado y/o período (RRHH). Sin filtros usa el
	// período corriente.
	ListAll(ctx context.Context, employeeID, period string) (dto.PayrollListResponse, error)
}

type service struct {
	deps Deps
}

// New crea el servicio de liquidaciones.
func New(deps Deps) Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{deps: deps}
}

func (s *service) Create(ctx context.Context, actorID string, in dto.CreatePayrollRequest) (*dto.PayrollResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("payrolls"),
		logger.Op("Create"),
		logger.EmployeeID(in.EmployeeID),
		logger.Period(in.Period),
	)

	// Paso 1: el empleado tiene que existir.
	if _, err := s.deps.Employees.GetByID(ctx, in.EmployeeID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("buscar empleado: %w", err)
	}

	// Paso 2: persistir el borrador.
	payroll, err := s.deps.Payrolls.Create(ctx, repository.CreatePayrollInput{
		EmployeeID: in.EmployeeID,
		Period:     in.Period,
		GrossPay:   in.GrossPay,
		Deductions: in.Deductions,
		NetPay:     in.NetPay(),
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrPeriodTaken
		}
		return nil, fmt.Errorf("crear liquidación: %w", err)
	}

	dashboard.Invalidate(s.deps.Cache)
	s.deps.Audit.Record(ctx, &actorID, "payroll.create", "payroll", payroll.ID, map[string]any{
		"period": payroll.Period,
		"netPay": payroll.NetPay,
	})

	log.Info("liquidación creada", logger.PayrollID(payroll.ID))
	resp := dto.NewPayrollResponse(payroll)
	return &resp, nil
}

func (s *service) Issue(ctx context.Context, actorID, id string) (*dto.PayrollResponse, error) {
	return s.transition(ctx, actorID, id, repository.PayrollDraft, repository.PayrollIssued, "payroll.issue")
}

func (s *service) Pay(ctx context.Context, actorID, id string) (*dto.PayrollResponse, error) {
	return s.transition(ctx, actorID, id, repository.PayrollIssued, repository.PayrollPaid, "payroll.pay")
}

// transition aplica un paso del ciclo DRAFT → ISSUED → PAID.
func (s *service) transition(ctx context.Context, actorID, id, from, to, action string) (*dto.PayrollResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("payrolls"),
		logger.Op("transition"),
		logger.PayrollID(id),
	)

	payroll, err := s.deps.Payrolls.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("buscar liquidación: %w", err)
	}
	if payroll.Status != from {
		log.Debug("transición rechazada",
			logger.String("from", payroll.Status),
			logger.String("to", to),
		)
		return nil, ErrInvalidTransition
	}

	// IssuedAt se fija una sola vez, al emitir.
	var issuedAt *time.Time
	if to == repository.PayrollIssued {
		now := s.deps.Now().UTC()
		issuedAt = &now
	}

	updated, err := s.deps.Payrolls.SetStatus(ctx, id, to, issuedAt)
	if err != nil {
		return nil, fmt.Errorf("guardar transición: %w", err)
	}

	dashboard.Invalidate(s.deps.Cache)
	s.deps.Audit.Record(ctx, &actorID, action, "payroll", updated.ID, map[string]any{
		"status": updated.Status,
	})

	log.Info("liquidación actualizada", logger.String("status", updated.Status))
	resp := dto.NewPayrollResponse(updated)
	return &resp, nil
}

func (s *service) Get(ctx context.Context, id string) (*dto.PayrollResponse, error) {
	payroll, err := s.deps.Payrolls.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("buscar liquidación: %w", err)
	}
	resp := dto.NewPayrollResponse(payroll)
	return &resp, nil
}

func (s *service) ListOwn(ctx context.Context, userID string) (dto.PayrollListResponse, error) {
	emp, err := s.deps.Employees.GetByUserID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.PayrollListResponse{Items: []dto.PayrollResponse{}}, nil
		}
		return dto.PayrollListResponse{}, fmt.Errorf("resolver empleado: %w", err)
	}

	rows, err := s.deps.Payrolls.ListByEmployee(ctx, emp.ID)
	if err != nil {
		return dto.PayrollListResponse{}, fmt.Errorf("listar liquidaciones: %w", err)
	}
	return payrollList(rows), nil
}

func (s *service) ListAll(ctx context.Context, employeeID, period string) (dto.PayrollListResponse, error) {
	switch {
	case employeeID != "":
		rows, err := s.deps.Payrolls.ListByEmployee(ctx, employeeID)
		if err != nil {
			return dto.PayrollListResponse{}, fmt.Errorf("listar liquidaciones: %w", err)
		}
		if period != "" {
			filtered := make([]repository.Payroll, 0, len(rows))
			for _, p := range rows {
				if p.Period == period {
					filtered = append(filtered, p)
				}
			}
			rows = filtered
		}
		return payrollList(rows), nil

	default:
		if period == "" {
			period = s.deps.Now().UTC().Format("2006-01")
		}
		rows, err := s.deps.Payrolls.ListByPeriod(ctx, period)
		if err != nil {
			return dto.PayrollListResponse{}, fmt.Errorf("listar liquidaciones: %w", err)
		}
		return payrollList(rows), nil
	}
}

func payrollList(rows []repository.Payroll) dto.PayrollListResponse {
	out := dto.PayrollListResponse{Items: make([]dto.PayrollResponse, 0, len(rows))}
	for i := range rows {
		out.Items = append(out.Items, dto.NewPayrollResponse(&rows[i]))
	}
	return out
}
