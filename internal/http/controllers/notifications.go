package controllers

import (
	"net/http"

	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
	"github.com/dropDatabas3/staffdesk/internal/http/helpers"
	"github.com/dropDatabas3/staffdesk/internal/http/middlewares"
	svc "github.com/dropDatabas3/staffdesk/internal/http/services/notifications"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// NotificationsController maneja el agregado de novedades del usuario.
type NotificationsController struct {
	service svc.Service
}

// NewNotificationsController crea el controller de notificaciones.
func NewNotificationsController(service svc.Service) *NotificationsController {
	return &NotificationsController{service: service}
}

// List maneja GET /v1/notifications.
func (c *NotificationsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("NotificationsController.List"))

	userID, ok := middlewares.GetUserID(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrTokenMissing)
		return
	}

	out, err := c.service.ListForUser(ctx, userID)
	if err != nil {
		log.Error("error inesperado en notifications", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}
