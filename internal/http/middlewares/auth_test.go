package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dropDatabas3/staffdesk/internal/jwt"
)

func newTestIssuer(t *testing.T) *jwt.Issuer {
	t.Helper()
	iss, err := jwt.NewIssuer(jwt.Config{
		Issuer:   "staffdesk-test",
		Audience: "staffdesk",
		KeySeed:  "seed-middlewares",
	})
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return iss
}

func identityEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, _ := GetUserID(r.Context())
		role, _ := GetRole(r.Context())
		email, _ := GetEmail(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]string{
			"user_id": uid,
			"role":    role,
			"email":   email,
		})
	})
}

func TestRequireAuthInjectsIdentity(t *testing.T) {
	iss := newTestIssuer(t)
	pair, err := iss.IssuePair("u-1", "ana@example.com", "HR")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	h := RequireAuth(iss)(identityEcho())
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("body no es JSON: %v", err)
	}
	if got["user_id"] != "u-1" || got["role"] != "HR" || got["email"] != "ana@example.com" {
		t.Fatalf("identidad inesperada: %v", got)
	}
}

func TestRequireAuthMissingToken(t *testing.T) {
	iss := newTestIssuer(t)
	h := RequireAuth(iss)(identityEcho())

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperaba 401", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Fatal("falta el header WWW-Authenticate")
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != "TOKEN_MISSING" {
		t.Fatalf("code = %v, esperaba TOKEN_MISSING", body["code"])
	}
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	iss := newTestIssuer(t)
	pair, err := iss.IssuePair("u-1", "ana@example.com", "HR")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	h := RequireAuth(iss)(identityEcho())
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Refresh)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperaba 401", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != "TOKEN_INVALID" {
		t.Fatalf("code = %v, esperaba TOKEN_INVALID", body["code"])
	}
}

type fakeParser struct {
	claims *jwt.Claims
	err    error
}

func (f *fakeParser) Parse(token, wantTyp string) (*jwt.Claims, error) {
	return f.claims, f.err
}

func TestRequireAuthExpiredToken(t *testing.T) {
	h := RequireAuth(&fakeParser{err: jwt.ErrExpiredToken})(identityEcho())

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer lo-que-sea")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperaba 401", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != "TOKEN_EXPIRED" {
		t.Fatalf("code = %v, esperaba TOKEN_EXPIRED", body["code"])
	}
}

func TestRequireRole(t *testing.T) {
	iss := newTestIssuer(t)
	protected := Chain(identityEcho(), RequireAuth(iss), RequireRole("HR", "ADMIN"))

	cases := []struct {
		role string
		want int
	}{
		{"ADMIN", http.StatusOK},
		{"HR", http.StatusOK},
		{"EMPLOYEE", http.StatusForbidden},
	}
	for _, tc := range cases {
		pair, err := iss.IssuePair("u-1", "x@example.com", tc.role)
		if err != nil {
			t.Fatalf("IssuePair(%s): %v", tc.role, err)
		}
		req := httptest.NewRequest(http.MethodGet, "/v1/payrolls", nil)
		req.Header.Set("Authorization", "Bearer "+pair.Access)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("rol %s: status = %d, esperaba %d", tc.role, rec.Code, tc.want)
		}
	}
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	h := RequireRole("ADMIN")(identityEcho())
	req := httptest.NewRequest(http.MethodGet, "/v1/audit-logs", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperaba 401 cuando no hay identidad", rec.Code)
	}
}
