package middlewares

import (
	"errors"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/staffdesk/internal/http/errors"
	"github.com/dropDatabas3/staffdesk/internal/jwt"
)

// TokenParser valida un access token y devuelve sus claims. Lo cumple
// *jwt.Issuer; la interfaz existe para poder fabricar tokens en tests.
type TokenParser interface {
	Parse(token, wantTyp string) (*jwt.Claims, error)
}

// RequireAuth exige un Bearer token de tipo access y deja la identidad
// (user_id, role, email) en el context para los handlers de abajo.
func RequireAuth(parser TokenParser) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="staffdesk"`)
				httperrors.WriteError(w, httperrors.ErrTokenMissing)
				return
			}

			claims, err := parser.Parse(raw, jwt.TypAccess)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="staffdesk", error="invalid_token"`)
				switch {
				case errors.Is(err, jwt.ErrExpiredToken):
					httperrors.WriteError(w, httperrors.ErrTokenExpired)
				default:
					httperrors.WriteError(w, httperrors.ErrTokenInvalid)
				}
				return
			}

			ctx := WithIdentity(r.Context(), claims.Subject, claims.Role, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole permite el paso sólo a los roles listados. Debe ir
// después de RequireAuth en la cadena.
func RequireRole(roles ...string) Middleware {
	want := make(map[string]bool, len(roles))
	for _, role := range roles {
		want[strings.ToUpper(strings.TrimSpace(role))] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRole(r.Context())
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="staffdesk"`)
				httperrors.WriteError(w, httperrors.ErrTokenMissing)
				return
			}
			if !want[strings.ToUpper(role)] {
				httperrors.WriteError(w, httperrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}
