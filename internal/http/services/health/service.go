// Package health implementa los probes de liveness y readiness.
//
// /healthz responde siempre que el proceso esté vivo; /readyz además
// verifica las dependencias (base de datos y KV) y degrada el status
// si alguna no responde.
package health

import (
	"context"
	"time"

	"github.com/dropDatabas3/staffdesk/internal/http/dto"
	"github.com/dropDatabas3/staffdesk/internal/kv"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// pingTimeout acota cada chequeo para que un backend colgado no
// bloquee el probe completo.
const pingTimeout = 2 * time.Second

// Deps contiene las dependencias del servicio.
type Deps struct {
	// PingDB verifica la base de datos. nil = sin chequeo (store memory).
	PingDB func(ctx context.Context) error

	KV      kv.Client
	Service string
	Version string
}

// Service expone los probes.
type Service interface {
	// Health reporta que el proceso está vivo.
	Health() dto.HealthResponse

	// Ready chequea las dependencias. El bool indica si todas
	// respondieron (200 vs 503 en el controller).
	Ready(ctx context.Context) (dto.ReadyResponse, bool)
}

type service struct {
	deps Deps
}

// New crea el servicio de health checks.
func New(deps Deps) Service {
	if deps.Service == "" {
		deps.Service = "staffdesk"
	}
	return &service{deps: deps}
}

func (s *service) Health() dto.HealthResponse {
	return dto.HealthResponse{
		Status:  "ok",
		Service: s.deps.Service,
		Version: s.deps.Version,
	}
}

func (s *service) Ready(ctx context.Context) (dto.ReadyResponse, bool) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	out := dto.ReadyResponse{
		Status:     "ready",
		Components: map[string]string{},
	}
	ok := true

	if s.deps.PingDB != nil {
		out.Components["db"] = "ok"
		if err := s.deps.PingDB(ctx); err != nil {
			out.Components["db"] = err.Error()
			ok = false
		}
	}
	if s.deps.KV != nil {
		out.Components["kv"] = "ok"
		if err := s.deps.KV.Ping(ctx); err != nil {
			out.Components["kv"] = err.Error()
			ok = false
		}
	}

	if !ok {
		out.Status = "degraded"
		logger.From(ctx).Warn("readiness degradada",
			logger.Layer("service"),
			logger.Component("health"),
			logger.Any("components", out.Components),
		)
	}
	return out, ok
}
