// Package store expone la fábrica de la capa de datos (DAL).
//
// Un DAL agrupa los repositorios concretos detrás de las interfaces de
// internal/domain/repository, de modo que los services nunca sepan qué
// driver hay debajo:
//
//	cfg → Open() ──► postgres (pgxpool)
//	              └─► memory   (mapas en proceso, para dev y tests)
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/store/memory"
	"github.com/dropDatabas3/staffdesk/internal/store/pg"
)

// DAL es el punto de acceso único a persistencia.
type DAL struct {
	Users     repository.UserRepository
	Employees repository.EmployeeRepository
	Leaves    repository.LeaveRepository
	Payrolls  repository.PayrollRepository
	Audit     repository.AuditRepository

	driver string
	pool   *pgxpool.Pool
	pingFn func(context.Context) error
	closFn func()
}

// Config describe el backend a abrir.
type Config struct {
	Driver          string // "postgres" | "memory" (vacío = memory)
	DSN             string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
}

// Open construye el DAL para el driver pedido.
func Open(ctx context.Context, cfg Config) (*DAL, error) {
	switch cfg.Driver {
	case "postgres":
		st, err := pg.New(ctx, pg.Config{
			DSN:             cfg.DSN,
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("store: abrir postgres: %w", err)
		}
		return &DAL{
			Users:     st.Users(),
			Employees: st.Employees(),
			Leaves:    st.Leaves(),
			Payrolls:  st.Payrolls(),
			Audit:     st.Audit(),
			driver:    "postgres",
			pool:      st.Pool(),
			pingFn:    st.Ping,
			closFn:    st.Close,
		}, nil

	case "", "memory":
		st := memory.New()
		return &DAL{
			Users:     st.Users(),
			Employees: st.Employees(),
			Leaves:    st.Leaves(),
			Payrolls:  st.Payrolls(),
			Audit:     st.Audit(),
			driver:    "memory",
			pingFn:    func(context.Context) error { return nil },
			closFn:    func() {},
		}, nil

	default:
		return nil, fmt.Errorf("store: driver desconocido: %q", cfg.Driver)
	}
}

// Driver devuelve el nombre del backend activo.
func (d *DAL) Driver() string { return d.driver }

// Pool expone el pool pgx subyacente. Es nil con el driver memory;
// solo lo usan readyz y las métricas de pool.
func (d *DAL) Pool() *pgxpool.Pool { return d.pool }

// Ping verifica conectividad con el backend.
func (d *DAL) Ping(ctx context.Context) error { return d.pingFn(ctx) }

// Close libera las conexiones. Seguro de llamar más de una vez.
func (d *DAL) Close() {
	if d.closFn != nil {
		d.closFn()
	}
}
