package middlewares

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

const requestIDHeader = "X-Request-ID"

// WithRequestID propaga el X-Request-ID entrante o genera uno nuevo.
// El ID queda en el context y en el header de respuesta para poder
// correlacionar logs con lo que vio el cliente.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = newRequestID()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, setRequestID(r, id))
	})
}

func newRequestID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read no falla en la práctica; el fallback evita un panic.
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(buf)
}
