package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/stansns/crud/internal/core/domain"
	"github.com/stansns/crud/internal/core/ports"
)

// seedUser creates an account directly in the stub repo with a working
// bcrypt hash so the service's re-authentication passes.
func seedUser(t *testing.T, repo *stubUserRepo, email, password string, admin bool) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	roles := []domain.Role{{Name: domain.RoleUser}}
	if admin {
		roles = append([]domain.Role{{Name: domain.RoleAdmin}}, roles...)
	}

	n, _ := repo.Count(context.Background())
	err = repo.Create(context.Background(), &domain.User{
		FirstName:    "User",
		LastName:     fmt.Sprintf("Number%02d", n),
		DateOfBirth:  "01/01/1990",
		PhoneNumber:  fmt.Sprintf("+35988800%04d", n),
		Email:        email,
		PasswordHash: string(hash),
		Roles:        roles,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
}

func adminCreds() ports.Credentials {
	return ports.Credentials{Email: "admin@example.com", Password: "adminpass"}
}

func seededService(t *testing.T, extraUsers int) (*HomeService, *stubUserRepo, *stubGuard) {
	t.Helper()
	repo := newStubUserRepo()
	guard := &stubGuard{}
	seedUser(t, repo, "admin@example.com", "adminpass", true)
	for i := 0; i < extraUsers; i++ {
		seedUser(t, repo, fmt.Sprintf("user%02d@example.com", i), "pass", false)
	}
	return NewHomeService(repo, guard), repo, guard
}

func TestHomeService_EveryOperationReauthenticates(t *testing.T) {
	svc, _, _ := seededService(t, 1)
	bad := ports.Credentials{Email: "admin@example.com", Password: "wrong"}

	if _, err := svc.ListDefault(context.Background(), bad, 0, 5); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("ListDefault error = %v, want ErrAccessDenied", err)
	}
	if _, err := svc.GetSelected(context.Background(), bad, "user00@example.com"); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("GetSelected error = %v, want ErrAccessDenied", err)
	}
	if err := svc.Delete(context.Background(), bad, "user00@example.com"); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("Delete error = %v, want ErrAccessDenied", err)
	}
	if err := svc.Logout(context.Background(), bad); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("Logout error = %v, want ErrAccessDenied", err)
	}
}

func TestListDefault_Pagination(t *testing.T) {
	svc, _, _ := seededService(t, 11) // 12 users total

	page, err := svc.ListDefault(context.Background(), adminCreds(), 0, 5)
	if err != nil {
		t.Fatalf("ListDefault() error = %v", err)
	}
	if len(page.Users) != 5 {
		t.Errorf("page length = %d, want 5", len(page.Users))
	}
	if page.TotalElements != 12 {
		t.Errorf("TotalElements = %d, want 12", page.TotalElements)
	}
	if page.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", page.TotalPages)
	}

	last, err := svc.ListDefault(context.Background(), adminCreds(), 2, 5)
	if err != nil {
		t.Fatalf("ListDefault() last page error = %v", err)
	}
	if len(last.Users) != 2 {
		t.Errorf("last page length = %d, want 2", len(last.Users))
	}
}

func TestListSortedByName_Orders(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "admin@example.com", "adminpass", true)
	repo.users[0].LastName = "Zeta"

	for i, last := range []string{"Young", "Adams", "Moore"} {
		seedUser(t, repo, fmt.Sprintf("u%d@example.com", i), "pass", false)
		repo.users[i+1].LastName = last
	}
	svc := NewHomeService(repo, nil)

	page, err := svc.ListSortedByName(context.Background(), adminCreds(), 0, 10)
	if err != nil {
		t.Fatalf("ListSortedByName() error = %v", err)
	}
	want := []string{"Adams", "Moore", "Young", "Zeta"}
	for i, u := range page.Users {
		if u.LastName != want[i] {
			t.Fatalf("position %d = %s, want %s", i, u.LastName, want[i])
		}
	}
}

func TestListSortedByName_DateOfBirthTieBreakIsChronological(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "admin@example.com", "adminpass", true)
	repo.users[0].LastName = "Doe"
	repo.users[0].DateOfBirth = "05/02/1990"
	seedUser(t, repo, "u1@example.com", "pass", false)
	repo.users[1].LastName = "Doe"
	repo.users[1].DateOfBirth = "20/01/1990"
	svc := NewHomeService(repo, nil)

	page, err := svc.ListSortedByName(context.Background(), adminCreds(), 0, 10)
	if err != nil {
		t.Fatalf("ListSortedByName() error = %v", err)
	}
	if len(page.Users) != 2 {
		t.Fatalf("page length = %d, want 2", len(page.Users))
	}

	// The display format sorts by day first; 20 January must still come
	// before 5 February.
	if page.Users[0].DateOfBirth != "20/01/1990" || page.Users[1].DateOfBirth != "05/02/1990" {
		t.Errorf("order = [%s %s], want chronological [20/01/1990 05/02/1990]",
			page.Users[0].DateOfBirth, page.Users[1].DateOfBirth)
	}
}

func TestSearch_ExactMatchPerField(t *testing.T) {
	svc, repo, _ := seededService(t, 3)
	repo.users[1].FirstName = "Unique"

	page, err := svc.Search(context.Background(), adminCreds(), "Unique", domain.SearchByFirstName, 0, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(page.Users) != 1 || page.Users[0].Email != "user00@example.com" {
		t.Errorf("Search() matched %d users, want exactly user00", len(page.Users))
	}

	// Exact equality, not substring.
	page, err = svc.Search(context.Background(), adminCreds(), "Uniq", domain.SearchByFirstName, 0, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(page.Users) != 0 {
		t.Errorf("substring search matched %d users, want 0", len(page.Users))
	}
}

func TestSearch_PhoneNumberPlusQuirk(t *testing.T) {
	svc, repo, _ := seededService(t, 1)
	repo.users[1].PhoneNumber = "+359888123456"

	// The client sends the leading plus percent-encoded.
	page, err := svc.Search(context.Background(), adminCreds(), "%20359888123456", domain.SearchByPhoneNumber, 0, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(page.Users) != 1 {
		t.Errorf("phone search matched %d users, want 1", len(page.Users))
	}
}

func TestSearch_UnknownOption(t *testing.T) {
	svc, _, _ := seededService(t, 0)
	_, err := svc.Search(context.Background(), adminCreds(), "x", "registerDate", 0, 5)
	if !errors.Is(err, domain.ErrMissingParameter) {
		t.Errorf("Search() error = %v, want ErrMissingParameter", err)
	}
}

func TestGetSelected(t *testing.T) {
	svc, _, _ := seededService(t, 1)

	user, err := svc.GetSelected(context.Background(), adminCreds(), "user00@example.com")
	if err != nil {
		t.Fatalf("GetSelected() error = %v", err)
	}
	if user.Email != "user00@example.com" {
		t.Errorf("Email = %q, want user00@example.com", user.Email)
	}

	if _, err := svc.GetSelected(context.Background(), adminCreds(), "ghost@example.com"); !errors.Is(err, domain.ErrResourceNotFound) {
		t.Errorf("GetSelected() missing error = %v, want ErrResourceNotFound", err)
	}
}

func TestDelete_AdminRules(t *testing.T) {
	svc, repo, _ := seededService(t, 1)
	seedUser(t, repo, "admin2@example.com", "adminpass", true)

	// Non-admin requester cannot delete.
	userCreds := ports.Credentials{Email: "user00@example.com", Password: "pass"}
	if err := svc.Delete(context.Background(), userCreds, "admin@example.com"); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("non-admin delete error = %v, want ErrAccessDenied", err)
	}

	// Admin cannot delete another admin.
	if err := svc.Delete(context.Background(), adminCreds(), "admin2@example.com"); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("delete admin error = %v, want ErrAccessDenied", err)
	}

	// Admin deletes a regular user.
	if err := svc.Delete(context.Background(), adminCreds(), "user00@example.com"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.FindByEmail(context.Background(), "user00@example.com"); !errors.Is(err, domain.ErrResourceNotFound) {
		t.Errorf("deleted user still present")
	}

	// Deleting a missing target reports not-found, not denial.
	if err := svc.Delete(context.Background(), adminCreds(), "ghost@example.com"); !errors.Is(err, domain.ErrResourceNotFound) {
		t.Errorf("delete missing error = %v, want ErrResourceNotFound", err)
	}
}

func TestDelete_DuplicateRequestRejected(t *testing.T) {
	svc, _, guard := seededService(t, 1)
	guard.deny = true

	err := svc.Delete(context.Background(), adminCreds(), "user00@example.com")
	if !errors.Is(err, domain.ErrDuplicateRequest) {
		t.Errorf("Delete() error = %v, want ErrDuplicateRequest", err)
	}
	if len(guard.keys) != 1 || guard.keys[0] != "admin@example.com/delete/user00@example.com" {
		t.Errorf("guard keys = %v", guard.keys)
	}
}

func TestDelete_BrokenGuardDoesNotBlock(t *testing.T) {
	svc, repo, guard := seededService(t, 1)
	guard.err = errors.New("redis down")

	if err := svc.Delete(context.Background(), adminCreds(), "user00@example.com"); err != nil {
		t.Fatalf("Delete() with broken guard error = %v", err)
	}
	if _, err := repo.FindByEmail(context.Background(), "user00@example.com"); !errors.Is(err, domain.ErrResourceNotFound) {
		t.Errorf("user not deleted when guard errored")
	}
}

func TestEditPhoneNumber_AdminOrSelf(t *testing.T) {
	svc, repo, _ := seededService(t, 2)

	// Admin edits someone else.
	updated, err := svc.EditPhoneNumber(context.Background(), adminCreds(), "user00@example.com", "+359000000001")
	if err != nil {
		t.Fatalf("EditPhoneNumber() error = %v", err)
	}
	if updated.PhoneNumber != "+359000000001" {
		t.Errorf("PhoneNumber = %q, want +359000000001", updated.PhoneNumber)
	}
	stored, _ := repo.FindByEmail(context.Background(), "user00@example.com")
	if stored.PhoneNumber != "+359000000001" {
		t.Errorf("stored PhoneNumber = %q, not persisted", stored.PhoneNumber)
	}

	// Self edit.
	userCreds := ports.Credentials{Email: "user00@example.com", Password: "pass"}
	if _, err := svc.EditPhoneNumber(context.Background(), userCreds, "user00@example.com", "+359000000002"); err != nil {
		t.Fatalf("self EditPhoneNumber() error = %v", err)
	}

	// A regular user cannot edit someone else.
	if _, err := svc.EditPhoneNumber(context.Background(), userCreds, "user01@example.com", "+359000000003"); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("cross-user EditPhoneNumber() error = %v, want ErrAccessDenied", err)
	}
}

func TestEditProfile_SelfOnly(t *testing.T) {
	svc, _, _ := seededService(t, 2)
	userCreds := ports.Credentials{Email: "user00@example.com", Password: "pass"}

	_, err := svc.EditProfile(context.Background(), userCreds, "user01@example.com", ports.EditProfileInput{FirstName: "X"})
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("cross-user EditProfile() error = %v, want ErrAccessDenied", err)
	}
}

func TestEditProfile_ResultCarriesOnlyChangedFields(t *testing.T) {
	svc, repo, _ := seededService(t, 1)
	userCreds := ports.Credentials{Email: "user00@example.com", Password: "pass"}

	result, err := svc.EditProfile(context.Background(), userCreds, "user00@example.com", ports.EditProfileInput{
		FirstName: "Renamed",
	})
	if err != nil {
		t.Fatalf("EditProfile() error = %v", err)
	}
	if result.FirstName != "Renamed" {
		t.Errorf("FirstName = %q, want Renamed", result.FirstName)
	}
	if result.Email != "" || result.Password != "" {
		t.Errorf("unchanged fields travelled back: email=%q password=%q", result.Email, result.Password)
	}
	if len(result.Roles) == 0 {
		t.Errorf("Roles empty, want the full role set")
	}

	stored, _ := repo.FindByEmail(context.Background(), "user00@example.com")
	if stored.FirstName != "Renamed" {
		t.Errorf("stored FirstName = %q, not persisted", stored.FirstName)
	}
}

func TestEditProfile_PasswordChangeRehashes(t *testing.T) {
	svc, repo, _ := seededService(t, 1)
	userCreds := ports.Credentials{Email: "user00@example.com", Password: "pass"}

	result, err := svc.EditProfile(context.Background(), userCreds, "user00@example.com", ports.EditProfileInput{
		Password: "newpass",
	})
	if err != nil {
		t.Fatalf("EditProfile() error = %v", err)
	}
	if result.Password != "newpass" {
		t.Errorf("Password = %q, want the new plaintext echoed back", result.Password)
	}

	stored, _ := repo.FindByEmail(context.Background(), "user00@example.com")
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass")) != nil {
		t.Errorf("stored hash does not verify against the new password")
	}
	// The old password no longer authenticates.
	if _, err := svc.ListDefault(context.Background(), userCreds, 0, 5); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("old password still authenticates after change")
	}
}

func TestEditProfile_TakenEmailRejected(t *testing.T) {
	svc, _, _ := seededService(t, 2)
	userCreds := ports.Credentials{Email: "user00@example.com", Password: "pass"}

	_, err := svc.EditProfile(context.Background(), userCreds, "user00@example.com", ports.EditProfileInput{
		Email: "user01@example.com",
	})
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Errorf("EditProfile() taken email error = %v, want ErrEmailExists", err)
	}

	// The existence check runs on the provided value even when it equals
	// the requester's current address.
	_, err = svc.EditProfile(context.Background(), userCreds, "user00@example.com", ports.EditProfileInput{
		Email: "user00@example.com",
	})
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Errorf("EditProfile() own email error = %v, want ErrEmailExists", err)
	}
}

func TestLogout_RequiresValidCredentials(t *testing.T) {
	svc, _, _ := seededService(t, 0)

	if err := svc.Logout(context.Background(), adminCreds()); err != nil {
		t.Errorf("Logout() error = %v", err)
	}
}
