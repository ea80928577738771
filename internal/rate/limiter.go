// Package rate implementa rate limiting de ventana fija sobre el KV.
// La clave incluye el inicio de ventana truncado, así el contador nace
// y muere con su ventana sin coordinar relojes entre réplicas.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/staffdesk/internal/kv"
)

// Result es el veredicto de una consulta al limiter.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration // resto de la ventana; 0 si Allowed
}

// Limiter decide si una operación identificada por key puede pasar.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// KVLimiter: ventana fija con INCR + TTL en el KV compartido.
type KVLimiter struct {
	kv     kv.Client
	prefix string
	max    int64
	window time.Duration
}

// NewKVLimiter arma un limiter de max hits por window.
func NewKVLimiter(kvc kv.Client, prefix string, max int, window time.Duration) *KVLimiter {
	if prefix == "" {
		prefix = "rl"
	}
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &KVLimiter{kv: kvc, prefix: prefix, max: int64(max), window: window}
}

func (l *KVLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.window)
	bucket := fmt.Sprintf("%s:%s:%d", l.prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	hits, err := l.kv.Incr(ctx, bucket, l.window)
	if err != nil {
		return Result{}, err
	}

	allowed := hits <= l.max
	remaining := l.max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{Allowed: allowed, Remaining: remaining}
	if !allowed {
		res.RetryAfter = winStart.Add(l.window).Sub(now)
	}
	return res, nil
}

// Noop deja pasar todo. Se usa cuando rate.enabled = false.
type Noop struct{}

func (Noop) Allow(context.Context, string) (Result, error) {
	return Result{Allowed: true, Remaining: 1}, nil
}
