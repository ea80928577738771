// Package bootstrap crea la cuenta ADMIN inicial de una instalación
// nueva. Tiene dos entradas: EnsureAdmin para el modo no interactivo
// (env vars, pensado para el arranque del server) y PromptCredentials
// para pedir las credenciales por stdin desde la CLI.
package bootstrap

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/dropDatabas3/staffdesk/internal/domain/repository"
	"github.com/dropDatabas3/staffdesk/internal/security/password"
)

// MinPasswordLen es el mínimo aceptado para la contraseña del admin.
const MinPasswordLen = 10

// EnsureAdmin garantiza que exista una cuenta ADMIN con el email dado.
// Retorna created=true sólo si la creó en esta corrida. Si el email ya
// pertenece a una cuenta con otro rol retorna error: mejor frenar que
// escalar privilegios en silencio.
func EnsureAdmin(ctx context.Context, users repository.UserRepository, email, plain string) (*repository.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, false, fmt.Errorf("email inválido: %q", email)
	}
	if len(plain) < MinPasswordLen {
		return nil, false, fmt.Errorf("la contraseña necesita al menos %d caracteres", MinPasswordLen)
	}

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != repository.RoleAdmin {
			return nil, false, fmt.Errorf("la cuenta %s ya existe con rol %s", email, existing.Role)
		}
		return existing, false, nil
	case repository.IsNotFound(err):
		// no existe, la creamos abajo
	default:
		return nil, false, fmt.Errorf("buscar cuenta: %w", err)
	}

	phc, err := password.Hash(password.Default, plain)
	if err != nil {
		return nil, false, fmt.Errorf("hashear contraseña: %w", err)
	}
	u, err := users.Create(ctx, repository.CreateUserInput{
		Email:        email,
		PasswordHash: phc,
		Role:         repository.RoleAdmin,
	})
	if err != nil {
		return nil, false, fmt.Errorf("crear admin: %w", err)
	}
	return u, true, nil
}

// PromptCredentials pide email y contraseña por stdin. La contraseña se
// lee con el eco apagado y se pide dos veces.
func PromptCredentials() (email, plain string, err error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email del admin: ")
	email, err = reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", "", fmt.Errorf("email inválido")
	}

	fmt.Printf("Contraseña (mín %d caracteres): ", MinPasswordLen)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", "", err
	}
	fmt.Println()
	if len(pw) < MinPasswordLen {
		return "", "", fmt.Errorf("la contraseña necesita al menos %d caracteres", MinPasswordLen)
	}

	fmt.Print("Confirmar contraseña: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", "", err
	}
	fmt.Println()
	if string(pw) != string(confirm) {
		return "", "", fmt.Errorf("las contraseñas no coinciden")
	}

	return email, string(pw), nil
}
