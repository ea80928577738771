package pg

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
)

type payrollRepo struct {
	pool *pgxpool.Pool
}

const payrollCols = `id, employee_id, period, gross_pay, deductions, net_pay, status,
	issued_at, created_at, updated_at`

func scanPayroll(row interface{ Scan(...any) error }) (*repository.Payroll, error) {
	var p repository.Payroll
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.Period, &p.GrossPay, &p.Deductions,
		&p.NetPay, &p.Status, &p.IssuedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *payrollRepo) Create(ctx context.Context, in repository.CreatePayrollInput) (*repository.Payroll, error) {
	const query = `
		INSERT INTO payroll (id, employee_id, period, gross_pay, deductions, net_pay)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + payrollCols
	return scanPayroll(r.pool.QueryRow(ctx, query,
		uuid.NewString(), in.EmployeeID, in.Period, in.GrossPay, in.Deductions, in.NetPay,
	))
}

func (r *payrollRepo) GetByID(ctx context.Context, id string) (*repository.Payroll, error) {
	const query = `SELECT ` + payrollCols + ` FROM payroll WHERE id = $1`
	return scanPayroll(r.pool.QueryRow(ctx, query, id))
}

func (r *payrollRepo) SetStatus(ctx context.Context, id, status string, issuedAt *time.Time) (*repository.Payroll, error) {
	const query = `
		UPDATE payroll SET
			status     = $2,
			issued_at  = COALESCE($3, issued_at),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + payrollCols
	return scanPayroll(r.pool.QueryRow(ctx, query, id, status, issuedAt))
}

func (r *payrollRepo) ListByEmployee(ctx context.Context, employeeID string) ([]repository.Payroll, error) {
	const query = `
		SELECT ` + payrollCols + `
		FROM payroll
		WHERE employee_id = $1
		ORDER BY period DESC`
	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectPayrolls(rows)
}

func (r *payrollRepo) ListRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]repository.Payroll, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `
		SELECT ` + payrollCols + `
		FROM payroll
		WHERE employee_id = $1
		ORDER BY updated_at DESC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, employeeID, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectPayrolls(rows)
}

func (r *payrollRepo) ListByPeriod(ctx context.Context, period string) ([]repository.Payroll, error) {
	const query = `
		SELECT ` + payrollCols + `
		FROM payroll
		WHERE period = $1
		ORDER BY employee_id`
	rows, err := r.pool.Query(ctx, query, period)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectPayrolls(rows)
}

func (r *payrollRepo) TotalNetByPeriod(ctx context.Context, period string) (int64, error) {
	const query = `
		SELECT COALESCE(SUM(net_pay), 0)
		FROM payroll
		WHERE period = $1 AND status <> 'DRAFT'`
	var total int64
	if err := r.pool.QueryRow(ctx, query, period).Scan(&total); err != nil {
		return 0, mapErr(err)
	}
	return total, nil
}

func collectPayrolls(rows pgx.Rows) ([]repository.Payroll, error) {
	out := []repository.Payroll{}
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}
