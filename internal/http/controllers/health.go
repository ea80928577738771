package controllers

import (
	"net/http"

	"github.com/dropDatabas3/staffdesk/internal/http/helpers"
	svc "github.com/dropDatabas3/staffdesk/internal/http/services/health"
)

// HealthController expone los probes de liveness y readiness.
type HealthController struct {
	service svc.Service
}

// NewHealthController crea el controller de health checks.
func NewHealthController(service svc.Service) *HealthController {
	return &HealthController{service: service}
}

// Health maneja GET /healthz.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, c.service.Health())
}

// Ready maneja GET /readyz. Responde 503 si alguna dependencia no
// contesta, para que el balanceador saque la instancia de rotación.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	out, ok := c.service.Ready(r.Context())
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, status, out)
}
