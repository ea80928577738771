package dto

import (
	"strings"
	"time"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
)

// DateLayout es el formato de fechas sin hora en toda la API.
const DateLayout = "2006-01-02"

// CreateEmployeeRequest es el body de POST /v1/employees.
type CreateEmployeeRequest struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	Position   string  `json:"position"`
	Department string  `json:"department"`
	Salary     int64   `json:"salary"` // centavos
	HiredAt    string  `json:"hired_at"`
	UserID     *string `json:"user_id,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))

	if r.FirstName == "" || r.LastName == "" || r.Email == "" {
		return httperrors.ErrMissingFields.WithDetail("first_name, last_name y email son requeridos")
	}
	if !strings.Contains(r.Email, "@") {
		return httperrors.ErrInvalidFormat.WithDetail("email inválido")
	}
	if r.Salary < 0 {
		return httperrors.ErrInvalidParameter.WithDetail("salary no puede ser negativo")
	}
	if r.HiredAt != "" {
		if _, err := time.Parse(DateLayout, r.HiredAt); err != nil {
			return httperrors.ErrInvalidFormat.WithDetail("hired_at debe ser YYYY-MM-DD")
		}
	}
	return nil
}

// HiredAtTime devuelve la fecha parseada; hoy si vino vacía.
func (r *CreateEmployeeRequest) HiredAtTime() time.Time {
	if r.HiredAt == "" {
		return time.Now().UTC().Truncate(24 * time.Hour)
	}
	t, _ := time.Parse(DateLayout, r.HiredAt)
	return t
}

// UpdateEmployeeRequest es el body de PUT /v1/employees/{id}.
// Campos nil = sin cambio.
type UpdateEmployeeRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Position   *string `json:"position,omitempty"`
	Department *string `json:"department,omitempty"`
	Salary     *int64  `json:"salary,omitempty"`
	UserID     *string `json:"user_id,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	if r.FirstName == nil && r.LastName == nil && r.Email == nil &&
		r.Position == nil && r.Department == nil && r.Salary == nil && r.UserID == nil {
		return httperrors.ErrMissingFields.WithDetail("el body no trae ningún campo para actualizar")
	}
	if r.Email != nil {
		e := strings.TrimSpace(strings.ToLower(*r.Email))
		if e == "" || !strings.Contains(e, "@") {
			return httperrors.ErrInvalidFormat.WithDetail("email inválido")
		}
		r.Email = &e
	}
	if r.Salary != nil && *r.Salary < 0 {
		return httperrors.ErrInvalidParameter.WithDetail("salary no puede ser negativo")
	}
	return nil
}

// EmployeeResponse es la ficha que devuelve la API.
type EmployeeResponse struct {
	ID         string    `json:"id"`
	UserID     *string   `json:"user_id,omitempty"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	Salary     int64     `json:"salary"`
	HiredAt    string    `json:"hired_at"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewEmployeeResponse mapea la entidad de dominio al contrato JSON.
func NewEmployeeResponse(e *repository.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Position:   e.Position,
		Department: e.Department,
		Salary:     e.Salary,
		HiredAt:    e.HiredAt.Format(DateLayout),
		Active:     e.Active,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// EmployeeListResponse pagina el listado de fichas.
type EmployeeListResponse struct {
	Items  []EmployeeResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
