// Package pg implementa los repositorios de dominio sobre PostgreSQL
// usando pgx/v5 con pool de conexiones.
//
// Convenciones del paquete:
//   - Cada entidad vive en su propio archivo (users.go, employees.go, ...).
//   - Las queries son const locales a cada método, sin SQL builders.
//   - pgx.ErrNoRows se traduce a repository.ErrNotFound y el código
//     SQLSTATE 23505 a repository.ErrConflict; ningún error de pgx
//     cruza hacia los services.
package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// Config controla el pool pgx.
type Config struct {
	DSN             string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
}

// Store agrupa el pool y fabrica los repositorios concretos.
type Store struct {
	pool *pgxpool.Pool
}

// New parsea el DSN, arma el pool y hace un ping de cortesía.
// El ping es no bloqueante: si la DB está caída la app igual arranca
// y readyz reporta el estado real.
func New(ctx context.Context, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	// Paso 1: límites del pool. Valores chicos a propósito; esto es un
	// backend interno de RRHH, no un ingestor de alto tráfico.
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}
	if pcfg.MaxConns <= 0 {
		pcfg.MaxConns = 10
	}
	if cfg.MinConns > 0 {
		pcfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
	} else {
		pcfg.MaxConnLifetime = 30 * time.Minute
	}
	pcfg.MaxConnIdleTime = 5 * time.Minute
	pcfg.HealthCheckPeriod = 30 * time.Second

	// Paso 2: crear el pool (no abre conexiones todavía).
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	// Paso 3: ping de arranque, solo informativo.
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.L().Warn("postgres no responde al arranque",
			logger.Component("store.pg"),
			logger.Err(err),
		)
	} else {
		logger.L().Info("pool postgres listo",
			logger.Component("store.pg"),
			logger.Int("max_conns", int(pcfg.MaxConns)),
		)
	}

	return &Store{pool: pool}, nil
}

// Pool expone el pool subyacente.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Ping verifica la conexión.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("pg: pool no inicializado")
	}
	return s.pool.Ping(ctx)
}

// Close cierra el pool. Idempotente.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// ====== Fábricas de repositorios ======

func (s *Store) Users() repository.UserRepository         { return &userRepo{pool: s.pool} }
func (s *Store) Employees() repository.EmployeeRepository { return &employeeRepo{pool: s.pool} }
func (s *Store) Leaves() repository.LeaveRepository       { return &leaveRepo{pool: s.pool} }
func (s *Store) Payrolls() repository.PayrollRepository   { return &payrollRepo{pool: s.pool} }
func (s *Store) Audit() repository.AuditRepository        { return &auditRepo{pool: s.pool} }

// ====== Helpers de traducción de errores ======

// mapErr colapsa los errores de pgx al vocabulario del dominio.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repository.ErrConflict
	}
	return err
}
