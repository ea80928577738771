package pg

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
)

type leaveRepo struct {
	pool *pgxpool.Pool
}

const leaveCols = `id, employee_id, kind, start_date, end_date, status, reason,
	decided_by, decided_at, created_at, updated_at`

func scanLeave(row interface{ Scan(...any) error }) (*repository.LeaveRequest, error) {
	var l repository.LeaveRequest
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.Kind, &l.StartDate, &l.EndDate,
		&l.Status, &l.Reason, &l.DecidedBy, &l.DecidedAt,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &l, nil
}

func (r *leaveRepo) Create(ctx context.Context, in repository.CreateLeaveInput) (*repository.LeaveRequest, error) {
	const query = `
		INSERT INTO leave_request (id, employee_id, kind, start_date, end_date, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + leaveCols
	return scanLeave(r.pool.QueryRow(ctx, query,
		uuid.NewString(), in.EmployeeID, in.Kind, in.StartDate, in.EndDate, in.Reason,
	))
}

func (r *leaveRepo) GetByID(ctx context.Context, id string) (*repository.LeaveRequest, error) {
	const query = `SELECT ` + leaveCols + ` FROM leave_request WHERE id = $1`
	return scanLeave(r.pool.QueryRow(ctx, query, id))
}

func (r *leaveRepo) SetStatus(ctx context.Context, id, status, decidedBy string, decidedAt time.Time) (*repository.LeaveRequest, error) {
	const query = `
		UPDATE leave_request SET
			status     = $2,
			decided_by = $3,
			decided_at = $4,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + leaveCols
	return scanLeave(r.pool.QueryRow(ctx, query, id, status, decidedBy, decidedAt))
}

func (r *leaveRepo) ListByEmployee(ctx context.Context, employeeID string) ([]repository.LeaveRequest, error) {
	const query = `
		SELECT ` + leaveCols + `
		FROM leave_request
		WHERE employee_id = $1
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectLeaves(rows)
}

func (r *leaveRepo) ListByStatus(ctx context.Context, status string, limit int) ([]repository.LeaveRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT ` + leaveCols + `
		FROM leave_request
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, status, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectLeaves(rows)
}

func (r *leaveRepo) ListRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]repository.LeaveRequest, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT ` + leaveCols + `
		FROM leave_request
		WHERE employee_id = $1
		ORDER BY updated_at DESC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectLeaves(rows)
}

func (r *leaveRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	const query = `SELECT COUNT(*) FROM leave_request WHERE status = $1`
	var n int
	if err := r.pool.QueryRow(ctx, query, status).Scan(&n); err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

func collectLeaves(rows pgx.Rows) ([]repository.LeaveRequest, error) {
	out := []repository.LeaveRequest{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}
