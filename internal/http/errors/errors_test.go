package errors

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
)

func TestWriteErrorAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrEmployeeNotFound)

	if rec.Code != 404 {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body no es JSON: %v", err)
	}
	if body["code"] != "EMPLOYEE_NOT_FOUND" {
		t.Fatalf("code = %q", body["code"])
	}
	if body["detail"] != "" {
		t.Fatalf("detail debería omitirse vacío: %q", body["detail"])
	}
}

func TestWriteErrorGenericBecomes500(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("se rompió la base"))

	if rec.Code != 500 {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != "INTERNAL_SERVER_ERROR" {
		t.Fatalf("code = %q", body["code"])
	}
	// La causa no debe filtrarse al cliente.
	if body["message"] == "se rompió la base" || body["detail"] == "se rompió la base" {
		t.Fatal("la causa interna se filtró en la respuesta")
	}
}

func TestWithDetailDoesNotMutateBase(t *testing.T) {
	e := ErrBadRequest.WithDetail("falta el campo email")
	if e.Detail != "falta el campo email" {
		t.Fatalf("detail = %q", e.Detail)
	}
	if ErrBadRequest.Detail != "" {
		t.Fatal("WithDetail mutó la variable global")
	}
}

func TestWithCauseUnwraps(t *testing.T) {
	cause := errors.New("timeout")
	e := ErrServiceUnavailable.WithCause(cause)
	if !errors.Is(e, cause) {
		t.Fatal("Unwrap no expone la causa")
	}
	if ErrServiceUnavailable.Err != nil {
		t.Fatal("WithCause mutó la variable global")
	}
}

func TestFromErrorPassthrough(t *testing.T) {
	if FromError(ErrForbidden) != ErrForbidden {
		t.Fatal("FromError debería devolver el mismo AppError")
	}
}
