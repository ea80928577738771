// Package auth implementa login con password, rotación de refresh
// tokens y logout. Los access tokens son stateless; la sesión vive en
// el KV bajo la jti del refresh, así un logout o una rotación revocan
// el refresh al instante.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/staffdesk/internal/audit"
	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/http/dto"
	"github.com/dropDatabas3/staffdesk/internal/jwt"
	"github.com/dropDatabas3/staffdesk/internal/kv"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
	"github.com/dropDatabas3/staffdesk/internal/security/password"
)

// Errores de autenticación.
var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserDisabled       = fmt.Errorf("user disabled")
	ErrInvalidRefresh     = fmt.Errorf("invalid refresh token")
	ErrSessionRevoked     = fmt.Errorf("session not found or revoked")
	ErrUserNotFound       = fmt.Errorf("user not found")
)

const sessionPrefix = "sess:"

func sessionKey(jti string) string { return sessionPrefix + jti }

// Deps contiene las dependencias del servicio de auth.
type Deps struct {
	Users     repository.UserRepository
	Employees repository.EmployeeRepository
	Issuer    *jwt.Issuer
	KV        kv.Client
	Audit     *audit.Recorder
}

// Service expone las operaciones de autenticación.
type Service interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenPairResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	Me(ctx context.Context, userID string) (*dto.MeResponse, error)
}

type service struct {
	deps Deps
}

// New crea el servicio de auth.
func New(deps Deps) Service {
	return &service{deps: deps}
}

func (s *service) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenPairResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Login"),
	)

	// Paso 1: buscar la cuenta. Usuario inexistente responde igual que
	// password incorrecto para no filtrar qué emails existen.
	user, err := s.deps.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Debug("email desconocido")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}

	// Paso 2: verificar password y estado de la cuenta.
	if !password.Verify(in.Password, user.PasswordHash) {
		log.Debug("password incorrecto", logger.UserID(user.ID))
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		log.Info("cuenta deshabilitada", logger.UserID(user.ID))
		return nil, ErrUserDisabled
	}

	// Paso 3: emitir el par y registrar la sesión del refresh.
	pair, err := s.deps.Issuer.IssuePair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("emitir tokens: %w", err)
	}
	if err := s.deps.KV.Set(ctx, sessionKey(pair.RefreshID), user.ID, s.deps.Issuer.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}

	// Paso 4: dejar constancia en el audit trail.
	s.deps.Audit.Record(ctx, &user.ID, "user.login", "user", user.ID, nil)

	log.Info("login exitoso", logger.UserID(user.ID), logger.Role(user.Role))
	return tokenPairResponse(pair), nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Refresh"),
	)

	// Paso 1: validar el refresh token.
	claims, err := s.deps.Issuer.Parse(refreshToken, jwt.TypRefresh)
	if err != nil {
		log.Debug("refresh token inválido", logger.Err(err))
		return nil, ErrInvalidRefresh
	}

	// Paso 2: la sesión tiene que seguir viva en el KV.
	exists, err := s.deps.KV.Exists(ctx, sessionKey(claims.ID))
	if err != nil {
		return nil, fmt.Errorf("consultar sesión: %w", err)
	}
	if !exists {
		log.Info("sesión revocada o rotada", logger.UserID(claims.Subject))
		return nil, ErrSessionRevoked
	}

	// Paso 3: la cuenta tiene que seguir activa.
	user, err := s.deps.Users.GetByID(ctx, claims.Subject)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSessionRevoked
		}
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if !user.Active {
		return nil, ErrUserDisabled
	}

	// Paso 4: rotar. Se borra la sesión vieja antes de emitir la nueva;
	// un refresh robado ya usado queda inservible.
	if err := s.deps.KV.Delete(ctx, sessionKey(claims.ID)); err != nil {
		return nil, fmt.Errorf("rotar sesión: %w", err)
	}
	pair, err := s.deps.Issuer.IssuePair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("emitir tokens: %w", err)
	}
	if err := s.deps.KV.Set(ctx, sessionKey(pair.RefreshID), user.ID, s.deps.Issuer.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("guardar sesión: %w", err)
	}

	log.Info("refresh rotado", logger.UserID(user.ID))
	return tokenPairResponse(pair), nil
}

func (s *service) Logout(ctx context.Context, userID, refreshToken string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Logout"),
		logger.UserID(userID),
	)

	// El logout es idempotente: un token ilegible o ya revocado no es
	// un error para el cliente.
	claims, err := s.deps.Issuer.Parse(refreshToken, jwt.TypRefresh)
	if err != nil {
		log.Debug("logout con refresh ilegible", logger.Err(err))
		return nil
	}

	if err := s.deps.KV.Delete(ctx, sessionKey(claims.ID)); err != nil {
		return fmt.Errorf("borrar sesión: %w", err)
	}

	s.deps.Audit.Record(ctx, &userID, "user.logout", "user", userID, nil)
	log.Info("sesión cerrada")
	return nil
}

func (s *service) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	user, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}

	resp := &dto.MeResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}

	// La ficha es opcional: cuentas de servicio y admins pueden no tenerla.
	emp, err := s.deps.Employees.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		er := dto.NewEmployeeResponse(emp)
		resp.Employee = &er
	case repository.IsNotFound(err):
		// sin ficha
	default:
		return nil, fmt.Errorf("buscar ficha: %w", err)
	}

	return resp, nil
}

func tokenPairResponse(pair *jwt.TokenPair) *dto.TokenPairResponse {
	return &dto.TokenPairResponse{
		AccessToken:  pair.Access,
		TokenType:    "Bearer",
		ExpiresIn:    int64(time.Until(pair.AccessExpiresAt).Seconds()),
		RefreshToken: pair.Refresh,
	}
}
