// Package dto define los contratos JSON de la API. Los requests
// validan con Validate() devolviendo AppError; las respuestas llevan
// tags explícitos.
package dto

import (
	"strings"
	"time"

	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
)

// LoginRequest es el body de POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" || r.Password == "" {
		return httperrors.ErrMissingFields.WithDetail("email y password son requeridos")
	}
	if !strings.Contains(r.Email, "@") {
		return httperrors.ErrInvalidFormat.WithDetail("email inválido")
	}
	return nil
}

// RefreshRequest es el body de POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshRequest) Validate() error {
	if strings.TrimSpace(r.RefreshToken) == "" {
		return httperrors.ErrMissingFields.WithDetail("refresh_token es requerido")
	}
	return nil
}

// LogoutRequest es el body de POST /v1/auth/logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *LogoutRequest) Validate() error {
	if strings.TrimSpace(r.RefreshToken) == "" {
		return httperrors.ErrMissingFields.WithDetail("refresh_token es requerido")
	}
	return nil
}

// TokenPairResponse devuelve el par emitido en login y refresh.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"` // siempre "Bearer"
	ExpiresIn    int64  `json:"expires_in"` // segundos de vida del access
	RefreshToken string `json:"refresh_token"`
}

// MeResponse es la respuesta de GET /v1/me.
type MeResponse struct {
	UserID    string            `json:"user_id"`
	Email     string            `json:"email"`
	Role      string            `json:"role"`
	Active    bool              `json:"active"`
	CreatedAt time.Time         `json:"created_at"`
	Employee  *EmployeeResponse `json:"employee,omitempty"`
}
