package dto

import "time"

// Tipos de notificación.
const (
	NotificationAudit   = "AUDIT"
	NotificationLeave   = "LEAVE"
	NotificationPayroll = "PAYROLL"
)

// Notification es un evento agregado para el usuario.
type Notification struct {
	Type      string         `json:"type"` // AUDIT | LEAVE | PAYROLL
	Message   string         `json:"message"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NotificationsResponse es la respuesta de GET /v1/notifications.
// EmployeeResolved distingue "sin novedades" de "usuario sin ficha".
type NotificationsResponse struct {
	Notifications    []Notification `json:"notifications"`
	EmployeeResolved bool           `json:"employee_resolved"`
}
