package dto

import (
	"errors"
	"testing"

	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
)

func assertAppCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *httperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("esperaba AppError, vino %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("code = %s, esperaba %s", appErr.Code, code)
	}
}

func TestLoginRequestValidate(t *testing.T) {
	r := LoginRequest{Email: "  Ana@Example.COM ", Password: "secreta"}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if r.Email != "ana@example.com" {
		t.Fatalf("email no normalizado: %q", r.Email)
	}

	empty := LoginRequest{}
	assertAppCode(t, empty.Validate(), "MISSING_FIELDS")

	bad := LoginRequest{Email: "sin-arroba", Password: "x"}
	assertAppCode(t, bad.Validate(), "INVALID_FORMAT")
}

func TestCreateLeaveRequestValidate(t *testing.T) {
	ok := CreateLeaveRequest{Kind: "vacation", StartDate: "2026-02-01", EndDate: "2026-02-05"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if ok.Kind != "VACATION" {
		t.Fatalf("kind no normalizado: %q", ok.Kind)
	}
	start, end := ok.Dates()
	if !end.After(start) {
		t.Fatal("rango mal parseado")
	}

	inverted := CreateLeaveRequest{Kind: "SICK", StartDate: "2026-02-05", EndDate: "2026-02-01"}
	assertAppCode(t, inverted.Validate(), "INVALID_DATE_RANGE")

	badKind := CreateLeaveRequest{Kind: "SABBATICAL", StartDate: "2026-02-01", EndDate: "2026-02-02"}
	assertAppCode(t, badKind.Validate(), "INVALID_PARAMETER")
}

func TestDecideLeaveRequestValidate(t *testing.T) {
	for _, status := range []string{"approved", "REJECTED", " cancelled "} {
		r := DecideLeaveRequest{Status: status}
		if err := r.Validate(); err != nil {
			t.Fatalf("Validate(%q): %v", status, err)
		}
	}
	pending := DecideLeaveRequest{Status: "PENDING"}
	assertAppCode(t, pending.Validate(), "INVALID_PARAMETER")
}

func TestCreatePayrollRequestValidate(t *testing.T) {
	ok := CreatePayrollRequest{EmployeeID: "e-1", Period: "2026-08", GrossPay: 500000, Deductions: 120000}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if ok.NetPay() != 380000 {
		t.Fatalf("NetPay = %d", ok.NetPay())
	}

	badPeriod := CreatePayrollRequest{EmployeeID: "e-1", Period: "2026-13", GrossPay: 1}
	assertAppCode(t, badPeriod.Validate(), "INVALID_FORMAT")

	negative := CreatePayrollRequest{EmployeeID: "e-1", Period: "2026-01", GrossPay: 100, Deductions: 200}
	assertAppCode(t, negative.Validate(), "INVALID_PARAMETER")
}

func TestUpdateEmployeeRequestValidate(t *testing.T) {
	empty := UpdateEmployeeRequest{}
	assertAppCode(t, empty.Validate(), "MISSING_FIELDS")

	email := "  Nueva@Example.com "
	r := UpdateEmployeeRequest{Email: &email}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if *r.Email != "nueva@example.com" {
		t.Fatalf("email no normalizado: %q", *r.Email)
	}
}

func TestValidPeriod(t *testing.T) {
	valid := []string{"2026-01", "1999-12", "2030-06"}
	invalid := []string{"2026-13", "2026-0", "26-01", "2026/01", "2026-00", ""}

	for _, p := range valid {
		if !ValidPeriod(p) {
			t.Fatalf("%q debería ser válido", p)
		}
	}
	for _, p := range invalid {
		if ValidPeriod(p) {
			t.Fatalf("%q debería ser inválido", p)
		}
	}
}
