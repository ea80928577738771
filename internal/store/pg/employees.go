package pg

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
)

type employeeRepo struct {
	pool *pgxpool.Pool
}

const employeeCols = `id, user_id, first_name, last_name, email, position, department,
	salary, hired_at, active, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (*repository.Employee, error) {
	var e repository.Employee
	err := row.Scan(
		&e.ID, &e.UserID, &e.FirstName, &e.LastName, &e.Email,
		&e.Position, &e.Department, &e.Salary, &e.HiredAt,
		&e.Active, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

func (r *employeeRepo) Create(ctx context.Context, in repository.CreateEmployeeInput) (*repository.Employee, error) {
	const query = `
		INSERT INTO employee
			(id, user_id, first_name, last_name, email, position, department, salary, hired_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + employeeCols
	return scanEmployee(r.pool.QueryRow(ctx, query,
		uuid.NewString(),
		in.UserID,
		strings.TrimSpace(in.FirstName),
		strings.TrimSpace(in.LastName),
		strings.ToLower(strings.TrimSpace(in.Email)),
		in.Position,
		in.Department,
		in.Salary,
		in.HiredAt,
	))
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*repository.Employee, error) {
	const query = `SELECT ` + employeeCols + ` FROM employee WHERE id = $1`
	return scanEmployee(r.pool.QueryRow(ctx, query, id))
}

func (r *employeeRepo) GetByUserID(ctx context.Context, userID string) (*repository.Employee, error) {
	const query = `SELECT ` + employeeCols + ` FROM employee WHERE user_id = $1`
	return scanEmployee(r.pool.QueryRow(ctx, query, userID))
}

// Update usa COALESCE: los punteros nil llegan como NULL y la columna
// conserva su valor.
func (r *employeeRepo) Update(ctx context.Context, id string, in repository.UpdateEmployeeInput) (*repository.Employee, error) {
	const query = `
		UPDATE employee SET
			first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			email      = COALESCE(LOWER($4), email),
			position   = COALESCE($5, position),
			department = COALESCE($6, department),
			salary     = COALESCE($7, salary),
			user_id    = COALESCE($8, user_id),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + employeeCols
	return scanEmployee(r.pool.QueryRow(ctx, query,
		id,
		in.FirstName, in.LastName, in.Email,
		in.Position, in.Department, in.Salary, in.UserID,
	))
}

func (r *employeeRepo) Deactivate(ctx context.Context, id string) error {
	const query = `
		UPDATE employee
		SET active = FALSE, updated_at = NOW()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List filtra con parámetros opcionales dentro de la misma query para
// no armar SQL dinámico: argumento vacío desactiva su filtro.
func (r *employeeRepo) List(ctx context.Context, p repository.ListEmployeesParams) ([]repository.Employee, int, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	search := strings.TrimSpace(p.Search)

	const countQuery = `
		SELECT COUNT(*) FROM employee
		WHERE ($1 = '' OR department = $1)
		  AND ($2 = '' OR first_name ILIKE '%' || $2 || '%'
		               OR last_name  ILIKE '%' || $2 || '%'
		               OR email      ILIKE '%' || $2 || '%')`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, p.Department, search).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	const query = `
		SELECT ` + employeeCols + `
		FROM employee
		WHERE ($1 = '' OR department = $1)
		  AND ($2 = '' OR first_name ILIKE '%' || $2 || '%'
		               OR last_name  ILIKE '%' || $2 || '%'
		               OR email      ILIKE '%' || $2 || '%')
		ORDER BY last_name, first_name
		LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, p.Department, search, limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	out := make([]repository.Employee, 0, limit)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr(err)
	}
	return out, total, nil
}

func (r *employeeRepo) CountActive(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM employee WHERE active`
	var n int
	if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}
