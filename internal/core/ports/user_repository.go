package ports

import (
	"context"

	"github.com/stansns/crud/internal/core/domain"
)

// ListUsersFilter narrows and pages a listing query.
type ListUsersFilter struct {
	// Page is zero-based, Size is the page length.
	Page int
	Size int
	// SortByName orders results by (lastName, dateOfBirth) ascending.
	// When false the repository's natural insertion order applies.
	SortByName bool
	// SearchField/SearchTerm select exact-equality matching on one field.
	// Both empty means no filtering.
	SearchField string
	SearchTerm  string
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// FindByEmail returns domain.ErrResourceNotFound when no account
	// carries the email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
	// Update rewrites the account currently keyed by originalEmail; the
	// user argument may carry a changed email.
	Update(ctx context.Context, originalEmail string, user *domain.User) error
	Delete(ctx context.Context, email string) error
	// List returns one page plus the unpaged total.
	List(ctx context.Context, f ListUsersFilter) ([]*domain.User, int64, error)
}
