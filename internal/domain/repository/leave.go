package repository

import (
	"context"
	"time"
)

// Tipos de licencia.
const (
	LeaveVacation = "VACATION"
	LeaveSick     = "SICK"
	LeaveUnpaid   = "UNPAID"
	LeaveOther    = "OTHER"
)

// Estados de una solicitud. PENDING es el único estado no terminal.
const (
	LeavePending   = "PENDING"
	LeaveApproved  = "APPROVED"
	LeaveRejected  = "REJECTED"
	LeaveCancelled = "CANCELLED"
)

// ValidLeaveKind reporta si kind es un tipo conocido.
func ValidLeaveKind(kind string) bool {
	switch kind {
	case LeaveVacation, LeaveSick, LeaveUnpaid, LeaveOther:
		return true
	}
	return false
}

// ValidLeaveStatus reporta si status es un estado conocido.
func ValidLeaveStatus(status string) bool {
	switch status {
	case LeavePending, LeaveApproved, LeaveRejected, LeaveCancelled:
		return true
	}
	return false
}

// LeaveRequest representa una solicitud de licencia.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Kind       string
	StartDate  time.Time // fecha (sin hora), UTC
	EndDate    time.Time
	Status     string
	Reason     string
	DecidedBy  *string // user que aprobó/rechazó
	DecidedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateLeaveInput contiene los datos para crear una solicitud.
type CreateLeaveInput struct {
	EmployeeID string
	Kind       string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
}

// LeaveRepository define las operaciones sobre solicitudes de licencia.
type LeaveRepository interface {
	// Create inserta una solicitud en estado PENDING.
	Create(ctx context.Context, in CreateLeaveInput) (*LeaveRequest, error)

	// GetByID retorna la solicitud o ErrNotFound.
	GetByID(ctx context.Context, id string) (*LeaveRequest, error)

	// SetStatus actualiza estado y decisión. La legalidad de la
	// transición la valida el service; acá sólo se persiste.
	SetStatus(ctx context.Context, id, status, decidedBy string, decidedAt time.Time) (*LeaveRequest, error)

	// ListByEmployee retorna las solicitudes del empleado, más reciente
	// primero (por created_at).
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)

	// ListByStatus retorna las solicitudes en el estado dado, más
	// reciente primero. status vacío ⇒ todas.
	ListByStatus(ctx context.Context, status string, limit int) ([]LeaveRequest, error)

	// ListRecentByEmployee retorna hasta limit solicitudes del empleado
	// ordenadas por updated_at descendente.
	ListRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]LeaveRequest, error)

	// CountByStatus cuenta solicitudes en un estado.
	CountByStatus(ctx context.Context, status string) (int, error)
}
