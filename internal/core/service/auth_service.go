package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stansns/crud/internal/core/domain"
	"github.com/stansns/crud/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.UserRepository
	location ports.LocationProvider
	now      func() time.Time
}

// NewAuthService wires the auth service. location may be nil, in which case
// new accounts carry empty location fields.
func NewAuthService(repo ports.UserRepository, location ports.LocationProvider) *AuthService {
	return &AuthService{repo: repo, location: location, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	if in.FirstName == "" || in.LastName == "" || in.PhoneNumber == "" ||
		in.Email == "" || in.Password == "" {
		return domain.ErrValidationFailed
	}

	dob, err := time.Parse(domain.BirthDateInputLayout, in.DateOfBirth)
	if err != nil || !dob.Before(s.now()) {
		return domain.ErrValidationFailed
	}

	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}

	// The very first account becomes the administrator.
	roles := []domain.Role{{Name: domain.RoleUser}}
	if count == 0 {
		roles = append([]domain.Role{{Name: domain.RoleAdmin}}, roles...)
	}

	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DateOfBirth:  dob.Format(domain.DateLayout),
		PhoneNumber:  in.PhoneNumber,
		Email:        in.Email,
		PasswordHash: string(hash),
		RegisterDate: s.now().Format(domain.RegisterDateLayout),
		Roles:        roles,
	}

	// Location enrichment is best-effort: a failed lookup leaves the
	// fields empty rather than failing the registration.
	if s.location != nil {
		if loc, err := s.location.Lookup(ctx); err == nil {
			user.Country = loc.Country
			user.City = loc.City
			user.Currency = loc.Currency
		}
	}

	return s.repo.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Not-found and storage failures alike collapse into the one
		// generic login error.
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &ports.AuthResult{
		Email:     user.Email,
		Password:  password,
		FirstName: user.FirstName,
		Roles:     user.Roles,
	}, nil
}
