package http

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"/healthz", "/healthz"},
		{"/v1/employees", "/v1/employees"},
		{"/v1/employees/0c9adf42-7f61-4f62-9e6d-1c4f0a6b2d11", "/v1/employees/:param"},
		{"/v1/payrolls/2026-08", "/v1/payrolls/:param"},
		{"/v1/leaves/123", "/v1/leaves/:param"},
		{"/v1/employees/deadbeefdeadbeefdeadbeef", "/v1/employees/:param"},
		{"//v1//employees", "/v1/employees"},
	}
	for _, tc := range cases {
		if got := normalizePath(tc.in); got != tc.want {
			t.Fatalf("normalizePath(%q) = %q, esperaba %q", tc.in, got, tc.want)
		}
	}
}

func TestIsDynamicSegment(t *testing.T) {
	dynamic := []string{
		"0c9adf42-7f61-4f62-9e6d-1c4f0a6b2d11",
		"deadbeefdeadbeef",
		"42",
		"2026-08",
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
	}
	static := []string{"employees", "v1", "audit-logs", "jwks.json"}

	for _, seg := range dynamic {
		if !isDynamicSegment(seg) {
			t.Fatalf("%q debería ser dinámico", seg)
		}
	}
	for _, seg := range static {
		if isDynamicSegment(seg) {
			t.Fatalf("%q debería ser estático", seg)
		}
	}
}
