package middlewares

import (
	"context"
	"net/http"
)

// ctxKey es un tipo propio para evitar colisiones en el context.
type ctxKey string

const (
	ctxUserIDKey    ctxKey = "auth.user_id"
	ctxRoleKey      ctxKey = "auth.role"
	ctxEmailKey     ctxKey = "auth.email"
	ctxRequestIDKey ctxKey = "request.id"
)

// WithIdentity inyecta la identidad autenticada en el context.
func WithIdentity(ctx context.Context, userID, role, email string) context.Context {
	ctx = context.WithValue(ctx, ctxUserIDKey, userID)
	ctx = context.WithValue(ctx, ctxRoleKey, role)
	return context.WithValue(ctx, ctxEmailKey, email)
}

// GetUserID devuelve el ID del usuario autenticado, si existe.
func GetUserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxUserIDKey).(string)
	return v, ok && v != ""
}

// GetRole devuelve el rol del usuario autenticado, si existe.
func GetRole(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxRoleKey).(string)
	return v, ok && v != ""
}

// GetEmail devuelve el email del usuario autenticado, si existe.
func GetEmail(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxEmailKey).(string)
	return v, ok && v != ""
}

// GetRequestID devuelve el ID de la request actual, si existe.
func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxRequestIDKey).(string)
	return v, ok && v != ""
}

func setRequestID(r *http.Request, id string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxRequestIDKey, id))
}
