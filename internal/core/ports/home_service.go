package ports

import (
	"context"

	"github.com/stansns/crud/internal/core/domain"
)

// Credentials is the per-request email/password pair every /home operation
// re-authenticates with. There is no token or cookie session.
type Credentials struct {
	Email    string
	Password string
}

// EditProfileInput is a partial profile: empty fields are left untouched.
type EditProfileInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Password    string
}

// HomeService implements the authenticated user-directory operations.
type HomeService interface {
	ListDefault(ctx context.Context, creds Credentials, page, size int) (*domain.UserPage, error)
	ListSortedByName(ctx context.Context, creds Credentials, page, size int) (*domain.UserPage, error)
	Search(ctx context.Context, creds Credentials, term, option string, page, size int) (*domain.UserPage, error)
	GetSelected(ctx context.Context, creds Credentials, selectedEmail string) (*domain.User, error)
	// Delete requires the requester to be ADMIN and the target to exist
	// and not be ADMIN.
	Delete(ctx context.Context, creds Credentials, targetEmail string) error
	// EditPhoneNumber is the legacy single-field edit; the requester must
	// be ADMIN or the target themselves. Returns the updated record.
	EditPhoneNumber(ctx context.Context, creds Credentials, targetEmail, phoneNumber string) (*domain.User, error)
	// EditProfile is self-edit only. The result carries only the identity
	// fields that actually changed, plus the full role set.
	EditProfile(ctx context.Context, creds Credentials, targetEmail string, in EditProfileInput) (*AuthResult, error)
	Logout(ctx context.Context, creds Credentials) error
}
