package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
)

type auditRepo struct {
	pool *pgxpool.Pool
}

const auditCols = `id, user_id, action, entity, entity_id, detail, created_at`

func scanAudit(row interface{ Scan(...any) error }) (*repository.AuditLog, error) {
	var (
		a   repository.AuditLog
		raw []byte
	)
	err := row.Scan(&a.ID, &a.UserID, &a.Action, &a.Entity, &a.EntityID, &raw, &a.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &a.Detail); err != nil {
			return nil, fmt.Errorf("pg: detail corrupto en audit %s: %w", a.ID, err)
		}
	}
	return &a, nil
}

func (r *auditRepo) Insert(ctx context.Context, in repository.InsertAuditInput) (*repository.AuditLog, error) {
	detail := in.Detail
	if detail == nil {
		detail = map[string]any{}
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return nil, fmt.Errorf("pg: serializar detail: %w", err)
	}

	const query = `
		INSERT INTO audit_log (id, user_id, action, entity, entity_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + auditCols
	return scanAudit(r.pool.QueryRow(ctx, query,
		uuid.NewString(), in.UserID, in.Action, in.Entity, in.EntityID, raw,
	))
}

func (r *auditRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]repository.AuditLog, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT ` + auditCols + `
		FROM audit_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectAudit(rows)
}

func (r *auditRepo) ListRecent(ctx context.Context, limit int) ([]repository.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT ` + auditCols + `
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectAudit(rows)
}

func collectAudit(rows pgx.Rows) ([]repository.AuditLog, error) {
	out := []repository.AuditLog{}
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}
