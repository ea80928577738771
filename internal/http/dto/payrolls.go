package dto

import (
	"regexp"
	"strings"
	"time"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
)

var periodRE = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidPeriod reporta si period tiene formato YYYY-MM.
func ValidPeriod(period string) bool {
	return periodRE.MatchString(period)
}

// CreatePayrollRequest es el body de POST /v1/payrolls.
type CreatePayrollRequest struct {
	EmployeeID string `json:"employee_id"`
	Period     string `json:"period"` // YYYY-MM
	GrossPay   int64  `json:"gross_pay"`
	Deductions int64  `json:"deductions"`
}

func (r *CreatePayrollRequest) Validate() error {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.Period = strings.TrimSpace(r.Period)

	if r.EmployeeID == "" || r.Period == "" {
		return httperrors.ErrMissingFields.WithDetail("employee_id y period son requeridos")
	}
	if !ValidPeriod(r.Period) {
		return httperrors.ErrInvalidFormat.WithDetail("period debe ser YYYY-MM")
	}
	if r.GrossPay < 0 || r.Deductions < 0 {
		return httperrors.ErrInvalidParameter.WithDetail("los montos no pueden ser negativos")
	}
	if r.Deductions > r.GrossPay {
		return httperrors.ErrInvalidParameter.WithDetail("deductions no puede superar gross_pay")
	}
	return nil
}

// NetPay calcula el neto del request. Llamar después de Validate.
func (r *CreatePayrollRequest) NetPay() int64 {
	return r.GrossPay - r.Deductions
}

// PayrollResponse es una liquidación en la API.
type PayrollResponse struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	Period     string     `json:"period"`
	GrossPay   int64      `json:"gross_pay"`
	Deductions int64      `json:"deductions"`
	NetPay     int64      `json:"net_pay"`
	Status     string     `json:"status"`
	IssuedAt   *time.Time `json:"issued_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewPayrollResponse mapea la entidad de dominio al contrato JSON.
func NewPayrollResponse(p *repository.Payroll) PayrollResponse {
	return PayrollResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		Period:     p.Period,
		GrossPay:   p.GrossPay,
		Deductions: p.Deductions,
		NetPay:     p.NetPay,
		Status:     p.Status,
		IssuedAt:   p.IssuedAt,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// PayrollListResponse agrupa liquidaciones.
type PayrollListResponse struct {
	Items []PayrollResponse `json:"items"`
}
