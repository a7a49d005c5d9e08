package ports

import (
	"context"

	"github.com/stansns/crud/internal/core/domain"
)

// RegisterInput carries a registration request. DateOfBirth arrives as an
// ISO date (2006-01-02) and is converted to the legacy display format on
// the way into storage.
type RegisterInput struct {
	FirstName   string
	LastName    string
	DateOfBirth string
	PhoneNumber string
	Email       string
	Password    string
}

// AuthResult is the identity payload returned on login and on a successful
// self-edit: the fields the client session is built from. Password is the
// plaintext the caller presented, echoed back as the original system did.
type AuthResult struct {
	Email     string
	Password  string
	FirstName string
	Roles     []domain.Role
}

// AuthService implements registration and login.
type AuthService interface {
	// Register creates the account. A duplicate email yields
	// domain.ErrEmailExists, the one failure whose message is surfaced
	// verbatim to the end user.
	Register(ctx context.Context, in RegisterInput) error
	// Login authenticates; every failure is domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}
