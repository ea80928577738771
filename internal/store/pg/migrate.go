package pg

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/staffdesk/internal/observability/logger"
)

// Migrator aplica las migraciones SQL embebidas en el binario.
// Lleva registro en la tabla _migrations y aplica cada archivo
// pendiente dentro de su propia transacción.
type Migrator struct {
	pool *pgxpool.Pool
	fsys embed.FS
	dir  string
}

// Migration es un archivo NNNN_nombre.sql ya parseado.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

var migrationPattern = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

// NewMigrator arma un migrador sobre el pool dado. dir es el directorio
// dentro del FS embebido (p.ej. "." o "postgres").
func NewMigrator(pool *pgxpool.Pool, fsys embed.FS, dir string) *Migrator {
	return &Migrator{pool: pool, fsys: fsys, dir: dir}
}

// Up aplica todas las migraciones pendientes en orden de versión.
// Retorna la cantidad aplicada.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}

	migs, err := m.load()
	if err != nil {
		return 0, err
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range migs {
		if applied[mig.Version] {
			continue
		}
		if err := m.apply(ctx, mig); err != nil {
			return count, fmt.Errorf("migración %04d_%s: %w", mig.Version, mig.Name, err)
		}
		logger.L().Info("migración aplicada",
			logger.Component("store.pg"),
			logger.Int("version", mig.Version),
			logger.String("name", mig.Name),
		)
		count++
	}
	return count, nil
}

// Pending retorna las migraciones que Up aplicaría.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	migs, err := m.load()
	if err != nil {
		return nil, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}
	pending := []Migration{}
	for _, mig := range migs {
		if !applied[mig.Version] {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS _migrations (
			version    INT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	_, err := m.pool.Exec(ctx, query)
	return err
}

// load lee y ordena los archivos NNNN_nombre.sql del FS embebido.
func (m *Migrator) load() ([]Migration, error) {
	entries, err := fs.ReadDir(m.fsys, m.dir)
	if err != nil {
		return nil, fmt.Errorf("leer migraciones: %w", err)
	}

	migs := []Migration{}
	seen := map[int]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := migrationPattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		version, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("versión inválida en %q: %w", entry.Name(), err)
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("versión %d duplicada: %q y %q", version, prev, entry.Name())
		}
		seen[version] = entry.Name()

		raw, err := fs.ReadFile(m.fsys, m.dir+"/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("leer %q: %w", entry.Name(), err)
		}
		migs = append(migs, Migration{Version: version, Name: match[2], SQL: string(raw)})
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	return migs, nil
}

// appliedVersions carga el set completo de versiones aplicadas. Se usa
// un set y no el máximo para tolerar huecos en la numeración.
func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	const query = `SELECT version FROM _migrations`
	rows, err := m.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, mig.SQL); err != nil {
		return err
	}
	const record = `INSERT INTO _migrations (version, name) VALUES ($1, $2)`
	if _, err := tx.Exec(ctx, record, mig.Version, mig.Name); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
