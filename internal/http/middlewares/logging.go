package middlewares

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// statusRecorder captura status y bytes escritos para el log de acceso.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.wroteHeader {
		return
	}
	sr.status = code
	sr.wroteHeader = true
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.wroteHeader {
		sr.WriteHeader(http.StatusOK)
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

// WithLogging deja un logger con contexto (request_id, method, path)
// en el context para las capas de abajo, y emite una línea de acceso
// al terminar con status, bytes y duración.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLogger := logger.L().With(
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
		)
		if id, ok := GetRequestID(r.Context()); ok {
			reqLogger = reqLogger.With(logger.RequestID(id))
		}

		ctx := logger.ToContext(r.Context(), reqLogger)
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sr, r.WithContext(ctx))

		entry := reqLogger.With(
			logger.Status(sr.status),
			logger.Bytes(sr.bytes),
			logger.Duration(time.Since(start)),
		)

		switch {
		case sr.status >= 500:
			entry.Error("request completada")
		case sr.status >= 400:
			entry.Warn("request completada")
		default:
			entry.Info("request completada")
		}
	})
}
