package service

import (
	"context"
	"sort"
	"strings"

	"github.com/stansns/crud/internal/core/domain"
	"github.com/stansns/crud/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   []*domain.User // insertion order preserved
	failAll error          // if set, every method returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.failAll != nil {
		return r.failAll
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailExists
		}
	}
	clone := *user
	r.users = append(r.users, &clone)
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrResourceNotFound
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if r.failAll != nil {
		return false, r.failAll
	}
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	if r.failAll != nil {
		return 0, r.failAll
	}
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) Update(_ context.Context, originalEmail string, user *domain.User) error {
	if r.failAll != nil {
		return r.failAll
	}
	for i, u := range r.users {
		if u.Email == originalEmail {
			clone := *user
			r.users[i] = &clone
			return nil
		}
	}
	return domain.ErrResourceNotFound
}

func (r *stubUserRepo) Delete(_ context.Context, email string) error {
	if r.failAll != nil {
		return r.failAll
	}
	for i, u := range r.users {
		if u.Email == email {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return domain.ErrResourceNotFound
}

// List applies the same filtering and ordering the real Mongo repo would.
func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	if r.failAll != nil {
		return nil, 0, r.failAll
	}

	var matched []*domain.User
	for _, u := range r.users {
		if f.SearchField != "" && fieldValue(u, f.SearchField) != f.SearchTerm {
			continue
		}
		clone := *u
		matched = append(matched, &clone)
	}

	if f.SortByName {
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].LastName != matched[j].LastName {
				return matched[i].LastName < matched[j].LastName
			}
			// Chronological, like the real repo's sort key column.
			return domain.BirthDateSortKey(matched[i].DateOfBirth) <
				domain.BirthDateSortKey(matched[j].DateOfBirth)
		})
	}

	total := int64(len(matched))
	start := f.Page * f.Size
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + f.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func fieldValue(u *domain.User, field string) string {
	switch field {
	case domain.SearchByFirstName:
		return u.FirstName
	case domain.SearchByLastName:
		return u.LastName
	case domain.SearchByPhoneNumber:
		return u.PhoneNumber
	case domain.SearchByEmail:
		return u.Email
	default:
		return ""
	}
}

// ---------------------------------------------------------------------------
// Stub mutation guard and location provider
// ---------------------------------------------------------------------------

type stubGuard struct {
	deny bool  // if set, Acquire reports the slot as taken
	err  error // if set, Acquire fails outright
	keys []string
}

func (g *stubGuard) Acquire(_ context.Context, requester, op, target string) (bool, error) {
	g.keys = append(g.keys, strings.Join([]string{requester, op, target}, "/"))
	if g.err != nil {
		return false, g.err
	}
	return !g.deny, nil
}

type stubLocation struct {
	loc ports.Location
	err error
}

func (l *stubLocation) Lookup(_ context.Context) (ports.Location, error) {
	if l.err != nil {
		return ports.Location{}, l.err
	}
	return l.loc, nil
}
