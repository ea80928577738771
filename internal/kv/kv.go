// Package kv provee el store clave/valor de soporte del servicio:
// sesiones de refresh tokens y contadores de rate limiting.
//
// Soporta:
//   - memory (in-process, para desarrollo/testing)
//   - redis (para despliegues con más de una réplica)
//
// No confundir con internal/cache: ese es el cache efímero de lecturas;
// este guarda estado que debe sobrevivir a un restart sólo si el driver
// es redis.
package kv

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client define las operaciones del store.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe o venció.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor con TTL. ttl <= 0 no expira.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete elimina una key. Borrar una key ausente no es error.
	Delete(ctx context.Context, key string) error

	// Exists verifica si una key existe.
	Exists(ctx context.Context, key string) (bool, error)

	// Incr incrementa el contador de key dentro de una ventana fija.
	// El primer incremento de la ventana fija el TTL.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close libera recursos.
	Close() error
}

// Config configura el store.
type Config struct {
	// Driver: "memory" o "redis".
	Driver string

	// Redis
	Addr     string
	Password string
	DB       int

	// Prefix se antepone a todas las keys (namespacing por app).
	Prefix string
}

// ErrNotFound indica que la key no existe o venció.
var ErrNotFound = errors.New("kv: key not found")

// IsNotFound reporta si err es un miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// New crea el cliente según el driver configurado.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(cfg.Prefix), nil
	case "redis":
		return NewRedis(cfg)
	default:
		return nil, fmt.Errorf("kv: driver desconocido: %q", cfg.Driver)
	}
}
