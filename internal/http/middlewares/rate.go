package middlewares

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
	"github.com/dropDatabas3/staffdesk/internal/rate"
)

// KeyFunc deriva la clave de rate limit a partir de la request.
type KeyFunc func(r *http.Request) string

// IPOnlyRateKey limita por IP del cliente, sin distinguir ruta.
func IPOnlyRateKey(r *http.Request) string {
	return clientIP(r)
}

// WithRateLimit aplica el limiter a cada request usando keyFn. Si el
// backend del limiter falla se deja pasar la request (fail-open): un
// Redis caído no debe tirar el login abajo.
func WithRateLimit(limiter rate.Limiter, keyFn KeyFunc) Middleware {
	if keyFn == nil {
		keyFn = IPOnlyRateKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), keyFn(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter no disponible, se deja pasar",
					logger.Layer("http"),
					logger.Component("rate"),
					logger.Err(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", res.Remaining))
			if !res.Allowed {
				secs := int(res.RetryAfter.Seconds())
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", fmt.Sprintf("%d", secs))
				httperrors.WriteError(w, httperrors.ErrRateLimitExceeded)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP devuelve la IP real del cliente, respetando el primer hop
// de X-Forwarded-For cuando hay proxy adelante.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		ip := strings.TrimSpace(parts[0])
		if ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
