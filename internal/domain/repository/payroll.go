package repository

import (
	"context"
	"time"
)

// Estados de una liquidación.
const (
	PayrollDraft  = "DRAFT"
	PayrollIssued = "ISSUED"
	PayrollPaid   = "PAID"
)

// Payroll representa la liquidación de un empleado para un período.
// Period usa formato "YYYY-MM"; montos en centavos.
type Payroll struct {
	ID         string
	EmployeeID string
	Period     string
	GrossPay   int64
	Deductions int64
	NetPay     int64
	Status     string
	IssuedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreatePayrollInput contiene los datos para crear una liquidación DRAFT.
type CreatePayrollInput struct {
	EmployeeID string
	Period     string
	GrossPay   int64
	Deductions int64
	NetPay     int64
}

// PayrollRepository define las operaciones sobre liquidaciones.
type PayrollRepository interface {
	// Create inserta una liquidación DRAFT. (empleado, período)
	// duplicado ⇒ ErrConflict.
	Create(ctx context.Context, in CreatePayrollInput) (*Payroll, error)

	// GetByID retorna la liquidación o ErrNotFound.
	GetByID(ctx context.Context, id string) (*Payroll, error)

	// SetStatus actualiza el estado; issuedAt se persiste cuando no es nil.
	SetStatus(ctx context.Context, id, status string, issuedAt *time.Time) (*Payroll, error)

	// ListByEmployee retorna las liquidaciones del empleado, período más
	// reciente primero.
	ListByEmployee(ctx context.Context, employeeID string) ([]Payroll, error)

	// ListRecentByEmployee retorna hasta limit liquidaciones del empleado
	// ordenadas por updated_at descendente.
	ListRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]Payroll, error)

	// ListByPeriod retorna las liquidaciones de un período.
	ListByPeriod(ctx context.Context, period string) ([]Payroll, error)

	// TotalNetByPeriod suma net_pay de las liquidaciones no-DRAFT del
	// período.
	TotalNetByPeriod(ctx context.Context, period string) (int64, error)
}
