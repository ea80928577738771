// Package controllers contiene los handlers HTTP por área.
//
// Cada controller parsea el request, delega en su service y escribe la
// respuesta. Nada de lógica de negocio acá: validación de formato en
// los DTOs, reglas en los services. El mapeo de errores de service a
// AppError vive en el handleError de cada controller.
package controllers

import (
	"github.com/dropDatabas3/staffdesk/internal/http/services/auditlog"
	"github.com/dropDatabas3/staffdesk/internal/http/services/auth"
	"github.com/dropDatabas3/staffdesk/internal/http/services/dashboard"
	"github.com/dropDatabas3/staffdesk/internal/http/services/employees"
	"github.com/dropDatabas3/staffdesk/internal/http/services/health"
	"github.com/dropDatabas3/staffdesk/internal/http/services/leaves"
	"github.com/dropDatabas3/staffdesk/internal/http/services/notifications"
	"github.com/dropDatabas3/staffdesk/internal/http/services/payrolls"
)

// Services agrupa los services que consumen los controllers.
type Services struct {
	Auth          auth.Service
	Employees     employees.Service
	Leaves        leaves.Service
	Payrolls      payrolls.Service
	Dashboard     dashboard.Service
	Notifications notifications.Service
	AuditLog      auditlog.Service
	Health        health.Service
}

// Controllers agrupa todos los controllers de la API.
type Controllers struct {
	Auth          *AuthController
	Employees     *EmployeesController
	Leaves        *LeavesController
	Payrolls      *PayrollsController
	Dashboard     *DashboardController
	Notifications *NotificationsController
	AuditLog      *AuditLogController
	Health        *HealthController
}

// New crea el agregador de controllers.
func New(s Services) *Controllers {
	return &Controllers{
		Auth:          NewAuthController(s.Auth),
		Employees:     NewEmployeesController(s.Employees),
		Leaves:        NewLeavesController(s.Leaves),
		Payrolls:      NewPayrollsController(s.Payrolls),
		Dashboard:     NewDashboardController(s.Dashboard),
		Notifications: NewNotificationsController(s.Notifications),
		AuditLog:      NewAuditLogController(s.AuditLog),
		Health:        NewHealthController(s.Health),
	}
}
