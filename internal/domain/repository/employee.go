package repository

import (
	"context"
	"time"
)

// Employee representa la ficha de un empleado.
type Employee struct {
	ID         string
	UserID     *string // cuenta vinculada; nil si todavía no tiene acceso
	FirstName  string
	LastName   string
	Email      string
	Position   string
	Department string
	Salary     int64 // centavos, moneda de la organización
	HiredAt    time.Time
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName retorna "Nombre Apellido".
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// CreateEmployeeInput contiene los datos para crear una ficha.
type CreateEmployeeInput struct {
	UserID     *string
	FirstName  string
	LastName   string
	Email      string
	Position   string
	Department string
	Salary     int64
	HiredAt    time.Time
}

// UpdateEmployeeInput contiene los campos actualizables.
// Punteros nil = sin cambio.
type UpdateEmployeeInput struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Position   *string
	Department *string
	Salary     *int64
	UserID     *string
}

// ListEmployeesParams filtra y pagina el listado.
type ListEmployeesParams struct {
	Search     string // matchea nombre, apellido o email (case-insensitive)
	Department string
	Limit      int
	Offset     int
}

// EmployeeRepository define las operaciones sobre fichas de empleados.
type EmployeeRepository interface {
	// Create inserta una ficha. Email duplicado ⇒ ErrConflict.
	Create(ctx context.Context, in CreateEmployeeInput) (*Employee, error)

	// GetByID retorna la ficha o ErrNotFound.
	GetByID(ctx context.Context, id string) (*Employee, error)

	// GetByUserID retorna la ficha vinculada a la cuenta o ErrNotFound.
	GetByUserID(ctx context.Context, userID string) (*Employee, error)

	// Update aplica los campos no-nil y retorna la ficha actualizada.
	Update(ctx context.Context, id string, in UpdateEmployeeInput) (*Employee, error)

	// Deactivate marca la ficha como inactiva (soft delete).
	Deactivate(ctx context.Context, id string) error

	// List retorna la página pedida y el total sin paginar.
	// Orden: apellido, nombre.
	List(ctx context.Context, p ListEmployeesParams) ([]Employee, int, error)

	// CountActive retorna la cantidad de fichas activas.
	CountActive(ctx context.Context) (int, error)
}
