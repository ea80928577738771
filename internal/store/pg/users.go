package pg

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
)

type userRepo struct {
	pool *pgxpool.Pool
}

const userCols = `id, email, password_hash, role, active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*repository.User, error) {
	var u repository.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	const query = `
		INSERT INTO app_user (id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userCols
	return scanUser(r.pool.QueryRow(ctx, query,
		uuid.NewString(),
		strings.ToLower(strings.TrimSpace(in.Email)),
		in.PasswordHash,
		in.Role,
	))
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	const query = `SELECT ` + userCols + ` FROM app_user WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	const query = `SELECT ` + userCols + ` FROM app_user WHERE email = LOWER($1)`
	return scanUser(r.pool.QueryRow(ctx, query, strings.TrimSpace(email)))
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `
		UPDATE app_user
		SET password_hash = $2, updated_at = $3
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, passwordHash, time.Now().UTC())
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepo) SetActive(ctx context.Context, id string, active bool) error {
	const query = `
		UPDATE app_user
		SET active = $2, updated_at = $3
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, active, time.Now().UTC())
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
