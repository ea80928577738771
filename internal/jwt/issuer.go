// Package jwt emite y valida los tokens de sesión de staffdesk.
//
// Se firma con Ed25519 (EdDSA). La clave se deriva de un seed de
// configuración para que todas las réplicas firmen igual; sin seed se
// genera una clave efímera, útil en desarrollo: los tokens mueren con
// el proceso.
package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token. El claim "typ" evita usar un refresh donde va un
// access y viceversa.
const (
	TypAccess  = "access"
	TypRefresh = "refresh"
)

var (
	ErrInvalidToken   = errors.New("jwt: token inválido")
	ErrExpiredToken   = errors.New("jwt: token expirado")
	ErrWrongTokenType = errors.New("jwt: tipo de token incorrecto")
)

// Claims son los claims propios de staffdesk sobre los registrados.
type Claims struct {
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	Typ   string `json:"typ"`
	jwtv5.RegisteredClaims
}

// Config arma un Issuer.
type Config struct {
	Issuer     string
	Audience   string
	KeySeed    string // vacío = clave efímera
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issuer firma y valida tokens con una única clave Ed25519 activa.
type Issuer struct {
	iss        string
	aud        string
	kid        string
	priv       ed25519.PrivateKey
	pub        ed25519.PublicKey
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// TokenPair es el resultado de un login o refresh exitoso.
type TokenPair struct {
	Access           string
	AccessExpiresAt  time.Time
	Refresh          string
	RefreshExpiresAt time.Time
	RefreshID        string // jti del refresh, clave de la sesión en KV
}

// NewIssuer deriva (o genera) la clave y fija los TTLs.
func NewIssuer(cfg Config) (*Issuer, error) {
	var (
		priv ed25519.PrivateKey
		pub  ed25519.PublicKey
	)
	if cfg.KeySeed != "" {
		sum := sha256.Sum256([]byte(cfg.KeySeed))
		priv = ed25519.NewKeyFromSeed(sum[:])
		pub = priv.Public().(ed25519.PublicKey)
	} else {
		var err error
		pub, priv, err = ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
	}

	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}

	// KID derivado de la pública: estable entre arranques con el mismo seed.
	sum := sha256.Sum256(pub)
	kid := hex.EncodeToString(sum[:4])

	return &Issuer{
		iss:        cfg.Issuer,
		aud:        cfg.Audience,
		kid:        kid,
		priv:       priv,
		pub:        pub,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

// KID devuelve el identificador de la clave activa.
func (i *Issuer) KID() string { return i.kid }

// AccessTTL devuelve el TTL de los access tokens.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL devuelve el TTL de los refresh tokens.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssuePair emite access + refresh para el usuario dado.
func (i *Issuer) IssuePair(userID, email, role string) (*TokenPair, error) {
	access, _, accessExp, err := i.issue(TypAccess, userID, email, role, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshJTI, refreshExp, err := i.issue(TypRefresh, userID, email, role, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		Access:           access,
		AccessExpiresAt:  accessExp,
		Refresh:          refresh,
		RefreshExpiresAt: refreshExp,
		RefreshID:        refreshJTI,
	}, nil
}

func (i *Issuer) issue(typ, sub, email, role string, ttl time.Duration) (string, string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	jti := uuid.NewString()

	claims := Claims{
		Role:  role,
		Email: email,
		Typ:   typ,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.iss,
			Subject:   sub,
			Audience:  jwtv5.ClaimStrings{i.aud},
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
			ID:        jti,
		},
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, claims)
	tk.Header["kid"] = i.kid
	signed, err := tk.SignedString(i.priv)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return signed, jti, exp, nil
}

// Parse valida firma, iss, aud, exp/nbf (con 30s de tolerancia) y que
// el claim typ sea el esperado.
func (i *Issuer) Parse(token, wantTyp string) (*Claims, error) {
	parsed, err := jwtv5.ParseWithClaims(token, &Claims{}, i.keyfunc,
		jwtv5.WithValidMethods([]string{"EdDSA"}),
		jwtv5.WithIssuer(i.iss),
		jwtv5.WithAudience(i.aud),
		jwtv5.WithLeeway(30*time.Second),
	)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Typ != wantTyp {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func (i *Issuer) keyfunc(t *jwtv5.Token) (any, error) {
	if kid, _ := t.Header["kid"].(string); kid != "" && kid != i.kid {
		return nil, ErrInvalidToken
	}
	return i.pub, nil
}
