// Package employees administra las fichas de empleados: CRUD, listado
// paginado con cache y el correo de bienvenida al dar de alta.
package employees

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

// Errores del servicio de empleados.
var (
	ErrNotFound   = fmt.Errorf("employee not found")
	ErrEmailTaken = fmt.Errorf("email already in use")
)

const (
	listCachePrefix = "employees:list:"
	listCacheTTL    = 60 * time.Second

	defaultLimit = 20
	maxLimit     = 100
)

// Deps contiene las dependencias del servicio.
type Deps struct {
	Employees repository.EmployeeRepository
	Cache     *cache.Cache
	Audit     *audit.Recorder
	Email     email.Sender

	// BaseURL del portal, para los links en los correos. Vacío = sin link.
	BaseURL string
}

// ListParams filtra y pagina el listado expuesto por la API.
type ListParams struct {
	Search     string
	Department string
	Limit      int
	Offset     int
}

// Service expone las operaciones sobre fichas.
type Service interface {
	List(ctx context.Context, p ListParams) (dto.EmployeeListResponse, error)
	Get(ctx context.Context, id string) (*dto.EmployeeResponse, error)
	Create(ctx context.Context, actorID string, in dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	Update(ctx context.Context, actorID, id string, in dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	Deactivate(ctx context.Context, actorID, id string) error
}

type service struct {
	deps Deps
}

// New crea el servicio de empleados.
func New(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) List(ctx context.Context, p ListParams) (dto.EmployeeListResponse, error) {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	// Cada combinación de filtros y página es una clave distinta; la
	// invalidación barre todo el prefijo.
	key := fmt.Sprintf("%s%s:%s:%d:%d", listCachePrefix, p.Department, p.Search, p.Limit, p.Offset)

	v, err := s.deps.Cache.GetOrSet(ctx, key, listCacheTTL, func(ctx context.Context) (any, error) {
		items, total, err := s.deps.Employees.List(ctx, repository.ListEmployeesParams{
			Search:     p.Search,
			Department: p.Department,
			Limit:      p.Limit,
			Offset:     p.Offset,
		})
		if err != nil {
			return nil, fmt.Errorf("listar empleados: %w", err)
		}

		out := dto.EmployeeListResponse{
			Items:  make([]dto.EmployeeResponse, 0, len(items)),
			Total:  total,
			Limit:  p.Limit,
			Offset: p.Offset,
		}
		for i := range items {
			out.Items = append(out.Items, dto.NewEmployeeResponse(&items[i]))
		}
		return out, nil
	})
	if err != nil {
		return dto.EmployeeListResponse{}, err
	}
	resp, ok := v.(dto.EmployeeListResponse)
	if !ok {
		return dto.EmployeeListResponse{}, fmt.Errorf("employees: tipo inesperado en cache: %T", v)
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	emp, err := s.deps.Employees.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("buscar ficha: %w", err)
	}
	resp := dto.NewEmployeeResponse(emp)
	return &resp, nil
}

func (s *service) Create(ctx context.Context, actorID string, in dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("employees"),
		logger.Op("Create"),
	)

	// Paso 1: persistir la ficha.
	emp, err := s.deps.Employees.Create(ctx, repository.CreateEmployeeInput{
		UserID:     in.UserID,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Position:   in.Position,
		Department: in.Department,
		Salary:     in.Salary,
		HiredAt:    in.HiredAtTime(),
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("crear ficha: %w", err)
	}

	// Paso 2: invalidar listados y dashboard.
	s.invalidate()

	// Paso 3: auditar.
	s.deps.Audit.Record(ctx, &actorID, "employee.create", "employee", emp.ID, map[string]any{
		"email":      emp.Email,
		"department": emp.Department,
	})

	// Paso 4: correo de bienvenida, best-effort.
	s.sendWelcome(ctx, emp)

	log.Info("ficha creada", logger.EmployeeID(emp.ID))
	resp := dto.NewEmployeeResponse(emp)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, actorID, id string, in dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("employees"),
		logger.Op("Update"),
		logger.EmployeeID(id),
	)

	emp, err := s.deps.Employees.Update(ctx, id, repository.UpdateEmployeeInput{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Position:   in.Position,
		Department: in.Department,
		Salary:     in.Salary,
		UserID:     in.UserID,
	})
	if err != nil {
		switch {
		case repository.IsNotFound(err):
			return nil, ErrNotFound
		case repository.IsConflict(err):
			return nil, ErrEmailTaken
		default:
			return nil, fmt.Errorf("actualizar ficha: %w", err)
		}
	}

	s.invalidate()
	s.deps.Audit.Record(ctx, &actorID, "employee.update", "employee", emp.ID, nil)

	log.Info("ficha actualizada")
	resp := dto.NewEmployeeResponse(emp)
	return &resp, nil
}

func (s *service) Deactivate(ctx context.Context, actorID, id string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("employees"),
		logger.Op("Deactivate"),
		logger.EmployeeID(id),
	)

	if err := s.deps.Employees.Deactivate(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("dar de baja: %w", err)
	}

	s.invalidate()
	s.deps.Audit.Record(ctx, &actorID, "employee.delete", "employee", id, nil)

	log.Info("ficha dada de baja")
	return nil
}

// invalidate barre los listados cacheados y el resumen del dashboard.
func (s *service) invalidate() {
	if s.deps.Cache == nil {
		return
	}
	s.deps.Cache.DeletePrefix(listCachePrefix)
	dashboard.Invalidate(s.deps.Cache)
}

// sendWelcome manda el correo de alta. Un SMTP caído se loguea y nada más.
func (s *service) sendWelcome(ctx context.Context, emp *repository.Employee) {
	if s.deps.Email == nil || emp.Email == "" {
		return
	}
	msg, err := email.RenderWelcome(emp.Email, email.WelcomeVars{
		Name:     emp.FullName(),
		Position: emp.Position,
		BaseURL:  s.deps.BaseURL,
	})
	if err != nil {
		logger.From(ctx).Warn("no se pudo armar el correo de bienvenida", logger.Err(err))
		return
	}
	if err := s.deps.Email.Send(ctx, msg); err != nil {
		logger.From(ctx).Warn("no se pudo enviar el correo de bienvenida",
			logger.EmployeeID(emp.ID),
			logger.Err(err),
		)
	}
}
