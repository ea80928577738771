package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type samplePayload struct {
	Name string `json:"name"`
}

func TestReadJSONHappyPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ana"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	var p samplePayload
	if ok := ReadJSON(rec, req, &p); !ok {
		t.Fatalf("ReadJSON falló: %s", rec.Body.String())
	}
	if p.Name != "ana" {
		t.Fatalf("Name = %q, esperaba ana", p.Name)
	}
}

func TestReadJSONRejectsWrongContentType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ana"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()

	var p samplePayload
	if ok := ReadJSON(rec, req, &p); ok {
		t.Fatal("esperaba rechazo por Content-Type")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperaba 400", rec.Code)
	}
}

func TestReadJSONRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	var p samplePayload
	if ok := ReadJSON(rec, req, &p); ok {
		t.Fatal("esperaba rechazo por JSON inválido")
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("respuesta no es JSON: %v", err)
	}
	if body["code"] != "INVALID_JSON" {
		t.Fatalf("code = %v, esperaba INVALID_JSON", body["code"])
	}
}

func TestQueryIntDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=abc&offset=-3", nil)
	if got := QueryInt(req, "limit", 20); got != 20 {
		t.Fatalf("limit = %d, esperaba default 20", got)
	}
	if got := QueryInt(req, "offset", 0); got != 0 {
		t.Fatalf("offset = %d, esperaba 0", got)
	}
	if got := QueryInt(req, "missing", 7); got != 7 {
		t.Fatalf("missing = %d, esperaba 7", got)
	}
}

func TestPagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&offset=10", nil)
	limit, offset := Pagination(req, 50)
	if limit != 5 || offset != 10 {
		t.Fatalf("pagination = (%d, %d), esperaba (5, 10)", limit, offset)
	}
}
