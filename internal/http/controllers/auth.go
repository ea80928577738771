package controllers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/dropDatabas3/staffdesk/internal/http/dto"
	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
	"github.com/dropDatabas3/staffdesk/internal/http/helpers"
	"github.com/dropDatabas3/staffdesk/internal/http/middlewares"
	svc "github.com/dropDatabas3/staffdesk/internal/http/services/auth"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
	"github.com/dropDatabas3/staffdesk/internal/util"
)

// AuthController maneja login, refresh, logout y /v1/me.
type AuthController struct {
	service svc.Service
}

// NewAuthController crea el controller de autenticación.
func NewAuthController(service svc.Service) *AuthController {
	return &AuthController{service: service}
}

// Login maneja POST /v1/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Login"))

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	pair, err := c.service.Login(ctx, req)
	if err != nil {
		log.Debug("login rechazado", logger.Email(util.MaskEmail(req.Email)), logger.Err(err))
		c.handleError(w, err, log)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, pair)
}

// Refresh maneja POST /v1/auth/refresh.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Refresh"))

	var req dto.RefreshRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	pair, err := c.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		log.Debug("refresh rechazado", logger.Err(err))
		c.handleError(w, err, log)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, pair)
}

// Logout maneja POST /v1/auth/logout. Siempre responde 204: revocar
// una sesión ya muerta no es un error.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Logout"))

	userID, _ := middlewares.GetUserID(ctx)

	var req dto.LogoutRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	if err := c.service.Logout(ctx, userID, req.RefreshToken); err != nil {
		log.Error("logout falló", logger.UserID(userID), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteNoContent(w)
}

// Me maneja GET /v1/me.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Me"))

	userID, ok := middlewares.GetUserID(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrTokenMissing)
		return
	}

	me, err := c.service.Me(ctx, userID)
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, me)
}

func (c *AuthController) handleError(w http.ResponseWriter, err error, log *zap.Logger) {
	switch {
	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
	case errors.Is(err, svc.ErrUserDisabled):
		httperrors.WriteError(w, httperrors.ErrAccountSuspended)
	case errors.Is(err, svc.ErrInvalidRefresh), errors.Is(err, svc.ErrSessionRevoked):
		httperrors.WriteError(w, httperrors.ErrSessionExpired)
	case errors.Is(err, svc.ErrUserNotFound):
		httperrors.WriteError(w, httperrors.ErrUserNotFound)
	default:
		log.Error("error inesperado en auth", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
