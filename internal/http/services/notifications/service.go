// Package notifications agrega la actividad reciente de un usuario en
// una sola lista: eventos de auditoría, licencias y liquidaciones.
//
// Las tres fuentes se consultan en paralelo y el resultado se mezcla
// ordenado por fecha descendente. No se cachea: el usuario siempre ve
// la foto fresca.
package notifications

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/http/dto"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// Cuántos registros recientes aporta cada fuente.
const (
	auditLimit   = 10
	leaveLimit   = 10
	payrollLimit = 5
)

// Deps contiene las dependencias del agregador.
type Deps struct {
	Employees repository.EmployeeRepository
	Leaves    repository.LeaveRepository
	Payrolls  repository.PayrollRepository
	Audit     repository.AuditRepository
}

// Service expone la agregación de notificaciones.
type Service interface {
	// ListForUser arma las notificaciones del usuario autenticado.
	// Un usuario sin ficha de empleado no es un error: se devuelve la
	// lista vacía con EmployeeResolved en false.
	ListForUser(ctx context.Context, userID string) (dto.NotificationsResponse, error)
}

type service struct {
	deps Deps
}

// New crea el servicio de notificaciones.
func New(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) ListForUser(ctx context.Context, userID string) (dto.NotificationsResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("notifications"),
		logger.Op("ListForUser"),
		logger.UserID(userID),
	)

	// Paso 1: resolver la ficha vinculada a la cuenta.
	emp, err := s.deps.Employees.GetByUserID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Debug("usuario sin ficha de empleado")
			return dto.NotificationsResponse{
				Notifications:    []dto.Notification{},
				EmployeeResolved: false,
			}, nil
		}
		return dto.NotificationsResponse{}, fmt.Errorf("resolver empleado: %w", err)
	}

	// Paso 2: consultar las tres fuentes en paralelo. Cualquier error
	// cancela el grupo y se propaga tal cual.
	var (
		auditRows []repository.AuditLog
		leaves    []repository.LeaveRequest
		payrolls  []repository.Payroll
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.deps.Audit.ListRecentByUser(gctx, userID, auditLimit)
		if err != nil {
			return fmt.Errorf("audit trail: %w", err)
		}
		auditRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.deps.Leaves.ListRecentByEmployee(gctx, emp.ID, leaveLimit)
		if err != nil {
			return fmt.Errorf("licencias: %w", err)
		}
		leaves = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.deps.Payrolls.ListRecentByEmployee(gctx, emp.ID, payrollLimit)
		if err != nil {
			return fmt.Errorf("liquidaciones: %w", err)
		}
		payrolls = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return dto.NotificationsResponse{}, err
	}

	// Paso 3: mapear cada fuente al contrato común.
	items := make([]dto.Notification, 0, len(auditRows)+len(leaves)+len(payrolls))
	for i := range auditRows {
		items = append(items, auditNotification(&auditRows[i]))
	}
	for i := range leaves {
		items = append(items, leaveNotification(&leaves[i]))
	}
	for i := range payrolls {
		items = append(items, payrollNotification(&payrolls[i]))
	}

	// Paso 4: mezclar por fecha, lo más nuevo primero. El sort estable
	// conserva el orden de armado ante empates de timestamp.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	log.Debug("notificaciones agregadas",
		logger.Count(len(items)),
		logger.EmployeeID(emp.ID),
	)
	return dto.NotificationsResponse{
		Notifications:    items,
		EmployeeResolved: true,
	}, nil
}

func auditNotification(a *repository.AuditLog) dto.Notification {
	return dto.Notification{
		Type:      dto.NotificationAudit,
		Message:   fmt.Sprintf("%s en %s", a.Action, a.Entity),
		CreatedAt: a.CreatedAt,
		Metadata: map[string]any{
			"entity":   a.Entity,
			"entityId": a.EntityID,
		},
	}
}

func leaveNotification(l *repository.LeaveRequest) dto.Notification {
	from := l.StartDate.Format(dto.DateLayout)
	to := l.EndDate.Format(dto.DateLayout)
	return dto.Notification{
		Type:      dto.NotificationLeave,
		Message:   fmt.Sprintf("Solicitud de licencia %s (%s al %s)", leaveStatusText(l.Status), from, to),
		CreatedAt: l.UpdatedAt,
		Metadata: map[string]any{
			"leaveId": l.ID,
			"status":  l.Status,
			"from":    from,
			"to":      to,
		},
	}
}

func payrollNotification(p *repository.Payroll) dto.Notification {
	return dto.Notification{
		Type:      dto.NotificationPayroll,
		Message:   fmt.Sprintf("Liquidación %s disponible", p.Period),
		CreatedAt: p.UpdatedAt,
		Metadata: map[string]any{
			"payrollId": p.ID,
			"period":    p.Period,
			"netPay":    p.NetPay,
		},
	}
}

func leaveStatusText(status string) string {
	switch status {
	case repository.LeavePending:
		return "pendiente"
	case repository.LeaveApproved:
		return "aprobada"
	case repository.LeaveRejected:
		return "rechazada"
	case repository.LeaveCancelled:
		return "cancelada"
	default:
		return status
	}
}
