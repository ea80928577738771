// Package router arma el árbol de rutas de la API sobre chi.
//
// El onion global es, de afuera hacia adentro:
//
//	Recover → RequestID → SecurityHeaders → CORS → Metrics → Logging
//
// Recover va primero para atrapar panics de cualquier capa, incluidas
// las propias middlewares. Autenticación y roles se aplican por grupo
// de rutas, no globalmente, porque login/refresh y los probes son
// públicos.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	httpx "github.com/dropDatabas3/staffdesk/internal/http"
	"github.com/dropDatabas3/staffdesk/internal/http/controllers"
	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
	"github.com/dropDatabas3/staffdesk/internal/http/middlewares"
	jwtx "github.com/dropDatabas3/staffdesk/internal/jwt"
	"github.com/dropDatabas3/staffdesk/internal/rate"
)

// Deps contiene todo lo que el router necesita para armar las rutas.
type Deps struct {
	Controllers *controllers.Controllers
	Issuer      *jwtx.Issuer

	// LoginLimiter limita POST /v1/auth/login por IP. nil = sin límite.
	LoginLimiter rate.Limiter

	CORS middlewares.CORSConfig

	// Metrics es el handler de GET /metrics. nil = endpoint deshabilitado.
	Metrics http.Handler
}

// New construye el handler raíz de la API.
func New(deps Deps) http.Handler {
	c := deps.Controllers

	r := chi.NewRouter()
	r.Use(middlewares.WithRecover)
	r.Use(middlewares.WithRequestID)
	r.Use(middlewares.WithSecurityHeaders)
	r.Use(middlewares.WithCORS(deps.CORS))
	r.Use(httpx.WithMetrics)
	r.Use(middlewares.WithLogging)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// Probes y metadata, sin auth.
	r.Get("/healthz", c.Health.Health)
	r.Get("/readyz", c.Health.Ready)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}
	r.Get("/.well-known/jwks.json", jwksHandler(deps.Issuer))

	r.Route("/v1", func(r chi.Router) {
		// Endpoints públicos de auth.
		r.Group(func(r chi.Router) {
			if deps.LoginLimiter != nil {
				r.With(middlewares.WithRateLimit(deps.LoginLimiter, middlewares.IPOnlyRateKey)).
					Post("/auth/login", c.Auth.Login)
			} else {
				r.Post("/auth/login", c.Auth.Login)
			}
			r.Post("/auth/refresh", c.Auth.Refresh)
		})

		// Todo lo demás requiere bearer token.
		r.Group(func(r chi.Router) {
			r.Use(middlewares.RequireAuth(deps.Issuer))

			staff := middlewares.RequireRole(repository.RoleAdmin, repository.RoleHR)
			admin := middlewares.RequireRole(repository.RoleAdmin)

			r.Post("/auth/logout", c.Auth.Logout)
			r.Get("/me", c.Auth.Me)
			r.Get("/dashboard", c.Dashboard.Summary)
			r.Get("/notifications", c.Notifications.List)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", c.Employees.List)
				r.Get("/{id}", c.Employees.Get)
				r.With(staff).Post("/", c.Employees.Create)
				r.With(staff).Put("/{id}", c.Employees.Update)
				r.With(admin).Delete("/{id}", c.Employees.Deactivate)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Get("/", c.Leaves.List)
				r.Post("/", c.Leaves.Create)
				r.With(staff).Patch("/{id}/status", c.Leaves.Decide)
			})

			r.Route("/payrolls", func(r chi.Router) {
				r.Get("/", c.Payrolls.List)
				r.With(staff).Get("/{id}", c.Payrolls.Get)
				r.With(admin).Post("/", c.Payrolls.Create)
				r.With(admin).Post("/{id}/issue", c.Payrolls.Issue)
				r.With(admin).Post("/{id}/pay", c.Payrolls.Pay)
			})

			r.With(admin).Get("/audit-logs", c.AuditLog.List)
		})
	})

	return r
}

// jwksHandler publica la clave de verificación para servicios externos.
func jwksHandler(issuer *jwtx.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=300")
		_, _ = w.Write(issuer.JWKSJSON())
	}
}
