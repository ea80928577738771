package middlewares

import (
	"net/http"
	"runtime/debug"

	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// WithRecover atrapa pánicos del resto de la cadena y responde 500
// en lugar de tirar la conexión. Va siempre primero en la cebolla.
func WithRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.From(r.Context()).Error("panic recuperado",
					logger.Layer("http"),
					logger.Component("recover"),
					logger.Any("panic", rec),
					logger.Path(r.URL.Path),
					logger.String("stack", string(debug.Stack())),
				)
				httperrors.WriteError(w, httperrors.ErrInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
