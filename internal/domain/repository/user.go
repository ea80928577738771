package repository

import (
	"context"
	"time"
)

// Roles del sistema. Se guardan tal cual en app_user.role y viajan en el
// claim "role" del access token.
const (
	RoleAdmin    = "ADMIN"
	RoleHR       = "HR"
	RoleEmployee = "EMPLOYEE"
)

// ValidRole reporta si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// User representa una cuenta que puede autenticarse.
// La ficha de empleado es aparte (Employee); no todo usuario tiene una
// (ej: cuentas de servicio) ni todo empleado tiene cuenta.
type User struct {
	ID           string
	Email        string // lowercased, único
	PasswordHash string // PHC argon2id
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserInput contiene los datos para crear un usuario.
type CreateUserInput struct {
	Email        string
	PasswordHash string
	Role         string
}

// UserRepository define las operaciones sobre usuarios.
type UserRepository interface {
	// Create inserta un usuario. Email duplicado ⇒ ErrConflict.
	Create(ctx context.Context, in CreateUserInput) (*User, error)

	// GetByID retorna el usuario o ErrNotFound.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail retorna el usuario o ErrNotFound. El email se compara
	// en minúsculas.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdatePassword reemplaza el hash de contraseña.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// SetActive habilita o deshabilita la cuenta.
	SetActive(ctx context.Context, id string, active bool) error
}
