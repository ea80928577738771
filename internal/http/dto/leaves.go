package dto

import (
	"strings"
	"time"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
)

// CreateLeaveRequest es el body de POST /v1/leaves.
type CreateLeaveRequest struct {
	Kind      string `json:"kind"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (r *CreateLeaveRequest) Validate() error {
	r.Kind = strings.ToUpper(strings.TrimSpace(r.Kind))
	if r.Kind == "" || r.StartDate == "" || r.EndDate == "" {
		return httperrors.ErrMissingFields.WithDetail("kind, start_date y end_date son requeridos")
	}
	if !repository.ValidLeaveKind(r.Kind) {
		return httperrors.ErrInvalidParameter.WithDetail("kind debe ser VACATION, SICK, UNPAID u OTHER")
	}
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return httperrors.ErrInvalidFormat.WithDetail("start_date debe ser YYYY-MM-DD")
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return httperrors.ErrInvalidFormat.WithDetail("end_date debe ser YYYY-MM-DD")
	}
	if end.Before(start) {
		return httperrors.ErrInvalidDateRange
	}
	return nil
}

// Dates devuelve el rango parseado. Llamar después de Validate.
func (r *CreateLeaveRequest) Dates() (start, end time.Time) {
	start, _ = time.Parse(DateLayout, r.StartDate)
	end, _ = time.Parse(DateLayout, r.EndDate)
	return start, end
}

// DecideLeaveRequest es el body de PATCH /v1/leaves/{id}/status.
type DecideLeaveRequest struct {
	Status string `json:"status"`
}

func (r *DecideLeaveRequest) Validate() error {
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	switch r.Status {
	case repository.LeaveApproved, repository.LeaveRejected, repository.LeaveCancelled:
		return nil
	default:
		return httperrors.ErrInvalidParameter.WithDetail("status debe ser APPROVED, REJECTED o CANCELLED")
	}
}

// LeaveResponse es una solicitud de licencia en la API.
type LeaveResponse struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	Kind       string     `json:"kind"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	Status     string     `json:"status"`
	Reason     string     `json:"reason,omitempty"`
	DecidedBy  *string    `json:"decided_by,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewLeaveResponse mapea la entidad de dominio al contrato JSON.
func NewLeaveResponse(l *repository.LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:         l.ID,
		EmployeeID: l.EmployeeID,
		Kind:       l.Kind,
		StartDate:  l.StartDate.Format(DateLayout),
		EndDate:    l.EndDate.Format(DateLayout),
		Status:     l.Status,
		Reason:     l.Reason,
		DecidedBy:  l.DecidedBy,
		DecidedAt:  l.DecidedAt,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

// LeaveListResponse agrupa solicitudes.
type LeaveListResponse struct {
	Items []LeaveResponse `json:"items"`
}
