package jwt

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	iss, err := NewIssuer(Config{
		Issuer:     "staffdesk",
		Audience:   "staffdesk-api",
		KeySeed:    "seed-de-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return iss
}

func TestIssueAndParsePair(t *testing.T) {
	iss := newTestIssuer(t)

	pair, err := iss.IssuePair("user-1", "ana@example.com", "HR")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" || pair.Access == pair.Refresh {
		t.Fatal("par de tokens inválido")
	}
	if pair.RefreshID == "" {
		t.Fatal("refresh sin jti")
	}

	claims, err := iss.Parse(pair.Access, TypAccess)
	if err != nil {
		t.Fatalf("Parse access: %v", err)
	}
	if claims.Subject != "user-1" || claims.Role != "HR" || claims.Email != "ana@example.com" {
		t.Fatalf("claims inesperados: %+v", claims)
	}

	rc, err := iss.Parse(pair.Refresh, TypRefresh)
	if err != nil {
		t.Fatalf("Parse refresh: %v", err)
	}
	if rc.ID != pair.RefreshID {
		t.Fatalf("jti del refresh no coincide: %s != %s", rc.ID, pair.RefreshID)
	}
}

func TestParseRejectsWrongType(t *testing.T) {
	iss := newTestIssuer(t)
	pair, err := iss.IssuePair("user-1", "a@b.c", "EMPLOYEE")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if _, err := iss.Parse(pair.Refresh, TypAccess); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("refresh como access: esperaba ErrWrongTokenType, vino %v", err)
	}
	if _, err := iss.Parse(pair.Access, TypRefresh); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("access como refresh: esperaba ErrWrongTokenType, vino %v", err)
	}
}

func TestParseRejectsTampered(t *testing.T) {
	iss := newTestIssuer(t)
	pair, err := iss.IssuePair("user-1", "a@b.c", "ADMIN")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	tampered := pair.Access[:len(pair.Access)-3] + "xxx"
	if _, err := iss.Parse(tampered, TypAccess); err == nil {
		t.Fatal("firma alterada aceptada")
	}

	if _, err := iss.Parse("no.es.jwt", TypAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("basura: esperaba ErrInvalidToken, vino %v", err)
	}
}

func TestParseRejectsForeignKey(t *testing.T) {
	a := newTestIssuer(t)
	b, err := NewIssuer(Config{
		Issuer:   "staffdesk",
		Audience: "staffdesk-api",
		KeySeed:  "otro-seed",
	})
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	pair, err := b.IssuePair("user-1", "a@b.c", "HR")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if _, err := a.Parse(pair.Access, TypAccess); err == nil {
		t.Fatal("token firmado con otra clave aceptado")
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	a := newTestIssuer(t)
	b := newTestIssuer(t)
	if a.KID() != b.KID() {
		t.Fatalf("mismo seed debería dar mismo KID: %s != %s", a.KID(), b.KID())
	}

	// Clave efímera: KID distinto casi seguro.
	c, err := NewIssuer(Config{Issuer: "staffdesk", Audience: "staffdesk-api"})
	if err != nil {
		t.Fatalf("NewIssuer efímero: %v", err)
	}
	if c.KID() == a.KID() {
		t.Fatal("clave efímera con el mismo KID que la derivada")
	}
}

func TestJWKSJSON(t *testing.T) {
	iss := newTestIssuer(t)

	var doc struct {
		Keys []map[string]string `json:"keys"`
	}
	if err := json.Unmarshal(iss.JWKSJSON(), &doc); err != nil {
		t.Fatalf("JWKS no es JSON válido: %v", err)
	}
	if len(doc.Keys) != 1 {
		t.Fatalf("esperaba 1 clave, hay %d", len(doc.Keys))
	}
	k := doc.Keys[0]
	if k["kty"] != "OKP" || k["crv"] != "Ed25519" || k["alg"] != "EdDSA" || k["kid"] != iss.KID() {
		t.Fatalf("JWKS inesperado: %+v", k)
	}
	if strings.TrimSpace(k["x"]) == "" {
		t.Fatal("JWKS sin clave pública")
	}
}
