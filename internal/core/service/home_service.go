package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/stansns/crud/internal/core/domain"
	"github.com/stansns/crud/internal/core/ports"
)

// HomeService implements the authenticated user-directory operations.
// Every entry point re-authenticates the caller's email/password pair
// against the store; there is no session carried between requests.
type HomeService struct {
	repo  ports.UserRepository
	guard ports.MutationGuard
}

// NewHomeService wires the home service. guard may be nil to disable
// mutation de-duplication.
func NewHomeService(repo ports.UserRepository, guard ports.MutationGuard) *HomeService {
	return &HomeService{repo: repo, guard: guard}
}

// authenticate resolves the requesting user or fails with ErrAccessDenied.
func (s *HomeService) authenticate(ctx context.Context, creds ports.Credentials) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, creds.Email)
	if err != nil {
		return nil, domain.ErrAccessDenied
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return nil, domain.ErrAccessDenied
	}
	return user, nil
}

func (s *HomeService) ListDefault(ctx context.Context, creds ports.Credentials, page, size int) (*domain.UserPage, error) {
	if _, err := s.authenticate(ctx, creds); err != nil {
		return nil, err
	}
	return s.list(ctx, ports.ListUsersFilter{Page: page, Size: size})
}

func (s *HomeService) ListSortedByName(ctx context.Context, creds ports.Credentials, page, size int) (*domain.UserPage, error) {
	if _, err := s.authenticate(ctx, creds); err != nil {
		return nil, err
	}
	return s.list(ctx, ports.ListUsersFilter{Page: page, Size: size, SortByName: true})
}

func (s *HomeService) Search(ctx context.Context, creds ports.Credentials, term, option string, page, size int) (*domain.UserPage, error) {
	if _, err := s.authenticate(ctx, creds); err != nil {
		return nil, err
	}

	switch option {
	case domain.SearchByFirstName, domain.SearchByLastName, domain.SearchByEmail:
	case domain.SearchByPhoneNumber:
		// Phone numbers reach us with their leading plus percent-encoded.
		term = strings.ReplaceAll(term, "%20", "+")
	default:
		return nil, domain.ErrMissingParameter
	}

	return s.list(ctx, ports.ListUsersFilter{
		Page:        page,
		Size:        size,
		SearchField: option,
		SearchTerm:  term,
	})
}

func (s *HomeService) GetSelected(ctx context.Context, creds ports.Credentials, selectedEmail string) (*domain.User, error) {
	if _, err := s.authenticate(ctx, creds); err != nil {
		return nil, err
	}
	return s.repo.FindByEmail(ctx, selectedEmail)
}

func (s *HomeService) Delete(ctx context.Context, creds ports.Credentials, targetEmail string) error {
	requester, err := s.authenticate(ctx, creds)
	if err != nil {
		return err
	}

	target, err := s.repo.FindByEmail(ctx, targetEmail)
	if err != nil {
		return err
	}

	// Only administrators delete, and administrators are not deletable.
	if !requester.IsAdmin() || target.IsAdmin() {
		return domain.ErrAccessDenied
	}

	if err := s.acquire(ctx, requester.Email, "delete", targetEmail); err != nil {
		return err
	}

	return s.repo.Delete(ctx, targetEmail)
}

func (s *HomeService) EditPhoneNumber(ctx context.Context, creds ports.Credentials, targetEmail, phoneNumber string) (*domain.User, error) {
	requester, err := s.authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	target, err := s.repo.FindByEmail(ctx, targetEmail)
	if err != nil {
		return nil, err
	}

	if !requester.IsAdmin() && requester.Email != target.Email {
		return nil, domain.ErrAccessDenied
	}

	target.PhoneNumber = phoneNumber
	if err := s.repo.Update(ctx, targetEmail, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *HomeService) EditProfile(ctx context.Context, creds ports.Credentials, targetEmail string, in ports.EditProfileInput) (*ports.AuthResult, error) {
	requester, err := s.authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}

	// A non-empty new email must be free. The original checked the
	// provided value even when it equals the current one; preserved.
	if in.Email != "" {
		exists, err := s.repo.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrEmailExists
		}
	}

	target, err := s.repo.FindByEmail(ctx, targetEmail)
	if err != nil {
		return nil, err
	}

	// Profiles are self-edit only.
	if requester.Email != target.Email {
		return nil, domain.ErrAccessDenied
	}

	if err := s.acquire(ctx, requester.Email, "edit", targetEmail); err != nil {
		return nil, err
	}

	setIfNotEmpty(in.FirstName, &target.FirstName)
	setIfNotEmpty(in.LastName, &target.LastName)
	setIfNotEmpty(in.Email, &target.Email)
	setIfNotEmpty(in.PhoneNumber, &target.PhoneNumber)
	if strings.TrimSpace(in.Password) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		target.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, targetEmail, target); err != nil {
		return nil, err
	}

	// Only the fields that actually changed travel back; the session on
	// the client side keeps its current values for the rest.
	result := &ports.AuthResult{Roles: target.Roles}
	if strings.TrimSpace(in.Email) != "" {
		result.Email = in.Email
	}
	if strings.TrimSpace(in.Password) != "" {
		result.Password = in.Password
	}
	if strings.TrimSpace(in.FirstName) != "" {
		result.FirstName = in.FirstName
	}
	return result, nil
}

func (s *HomeService) Logout(ctx context.Context, creds ports.Credentials) error {
	_, err := s.authenticate(ctx, creds)
	return err
}

func (s *HomeService) list(ctx context.Context, f ports.ListUsersFilter) (*domain.UserPage, error) {
	if f.Size <= 0 {
		f.Size = 10
	}
	if f.Page < 0 {
		f.Page = 0
	}

	users, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	totalPages := int(total / int64(f.Size))
	if total%int64(f.Size) != 0 {
		totalPages++
	}

	return &domain.UserPage{
		Users:         users,
		Number:        f.Page,
		Size:          f.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

func (s *HomeService) acquire(ctx context.Context, requester, op, target string) error {
	if s.guard == nil {
		return nil
	}
	ok, err := s.guard.Acquire(ctx, requester, op, target)
	if err != nil {
		// A broken guard must not block mutations.
		return nil
	}
	if !ok {
		return domain.ErrDuplicateRequest
	}
	return nil
}

func setIfNotEmpty(value string, field *string) {
	if strings.TrimSpace(value) != "" {
		*field = value
	}
}
