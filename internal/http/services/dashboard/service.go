// Package dashboard arma el resumen gerencial de la organización.
// El cómputo junta cuatro consultas y se memoriza en el cache de
// aplicación por cinco minutos; las escrituras relevantes invalidan
// la clave para no servir números viejos.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/staffdesk/internal/cache"
	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/http/dto"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// CacheKey es la clave del resumen en el cache de aplicación.
// La comparten los services que escriben datos del resumen.
const CacheKey = "dashboard:summary"

const (
	defaultTTL          = 5 * time.Minute
	recentActivityLimit = 5
)

// Deps contiene las dependencias del dashboard.
type Deps struct {
	Employees repository.EmployeeRepository
	Leaves    repository.LeaveRepository
	Payrolls  repository.PayrollRepository
	Audit     repository.AuditRepository
	Cache     *cache.Cache

	// TTL del resumen cacheado; <= 0 usa el default de 5 minutos.
	TTL time.Duration

	// Now permite congelar el reloj en tests. nil = time.Now.
	Now func() time.Time
}

// Service expone el resumen del dashboard.
type Service interface {
	Summary(ctx context.Context) (dto.DashboardResponse, error)
}

type service struct {
	deps Deps
}

// New crea el servicio de dashboard.
func New(deps Deps) Service {
	if deps.TTL <= 0 {
		deps.TTL = defaultTTL
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{deps: deps}
}

func (s *service) Summary(ctx context.Context) (dto.DashboardResponse, error) {
	v, err := s.deps.Cache.GetOrSet(ctx, CacheKey, s.deps.TTL, func(ctx context.Context) (any, error) {
		return s.compute(ctx)
	})
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	resp, ok := v.(dto.DashboardResponse)
	if !ok {
		return dto.DashboardResponse{}, fmt.Errorf("dashboard: tipo inesperado en cache: %T", v)
	}
	return resp, nil
}

func (s *service) compute(ctx context.Context) (dto.DashboardResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("dashboard"),
		logger.Op("Summary"),
	)

	now := s.deps.Now().UTC()
	period := now.Format("2006-01")

	var (
		activeEmployees int
		pendingLeaves   int
		periodNetTotal  int64
		recentAudit     []repository.AuditLog
	)

	// Las cuatro consultas no dependen entre sí: van en paralelo.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.deps.Employees.CountActive(gctx)
		if err != nil {
			return fmt.Errorf("contar empleados: %w", err)
		}
		activeEmployees = n
		return nil
	})
	g.Go(func() error {
		n, err := s.deps.Leaves.CountByStatus(gctx, repository.LeavePending)
		if err != nil {
			return fmt.Errorf("contar licencias pendientes: %w", err)
		}
		pendingLeaves = n
		return nil
	})
	g.Go(func() error {
		total, err := s.deps.Payrolls.TotalNetByPeriod(gctx, period)
		if err != nil {
			return fmt.Errorf("total neto del período: %w", err)
		}
		periodNetTotal = total
		return nil
	})
	g.Go(func() error {
		rows, err := s.deps.Audit.ListRecent(gctx, recentActivityLimit)
		if err != nil {
			return fmt.Errorf("actividad reciente: %w", err)
		}
		recentAudit = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return dto.DashboardResponse{}, err
	}

	activity := make([]dto.AuditLogResponse, 0, len(recentAudit))
	for i := range recentAudit {
		activity = append(activity, dto.NewAuditLogResponse(&recentAudit[i]))
	}

	log.Debug("resumen recalculado",
		logger.Period(period),
		logger.Int("active_employees", activeEmployees),
		logger.Int("pending_leaves", pendingLeaves),
	)
	return dto.DashboardResponse{
		ActiveEmployees: activeEmployees,
		PendingLeaves:   pendingLeaves,
		Period:          period,
		PeriodNetTotal:  periodNetTotal,
		RecentActivity:  activity,
		GeneratedAt:     now,
	}, nil
}

// Invalidate borra el resumen cacheado. La llaman los services que
// modifican empleados, licencias o liquidaciones.
func Invalidate(c *cache.Cache) {
	if c != nil {
		c.Delete(CacheKey)
	}
}
