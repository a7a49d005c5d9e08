// Package console ties the client core together: the obfuscated session
// store, the directory client, and the disposable listing cache, with the
// reconciliation rule that keeps the session consistent after a self-edit.
package console

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/stansns/crud/internal/console/directory"
	"github.com/stansns/crud/internal/console/guard"
	"github.com/stansns/crud/internal/console/session"
)

// DefaultPageSize is the listing page length when none is chosen.
const DefaultPageSize = 5

// ErrNotLoggedIn is returned by operations that need session credentials
// when no complete session exists.
var ErrNotLoggedIn = errors.New("not logged in")

// validate performs the client-side checks that must never reach the
// network: required fields, email shape, date shape.
var validate = validator.New()

// Registration is the client-side registration form. Validation failures
// are caught here, before any request is issued.
type Registration struct {
	FirstName   string `validate:"required"`
	LastName    string `validate:"required"`
	Email       string `validate:"required,email"`
	PhoneNumber string `validate:"required"`
	DateOfBirth string `validate:"required,datetime=2006-01-02"`
	Password    string `validate:"required"`
}

// Console is the per-process application state: one session, one backend,
// one listing cache. It is event-driven and assumes a single logical caller
// at a time, like the UI it replaces.
type Console struct {
	Session *session.Store
	dir     *directory.Client
	log     zerolog.Logger

	listing       []directory.UserRecord
	page          int
	size          int
	totalPages    int
	totalElements int64
}

func New(dir *directory.Client, sess *session.Store, log zerolog.Logger) *Console {
	return &Console{
		Session: sess,
		dir:     dir,
		log:     log,
		size:    DefaultPageSize,
	}
}

// Navigate applies the route guard to a screen's declared requirement using
// the live session state.
func (c *Console) Navigate(required guard.RequiredState) guard.Decision {
	return guard.Decide(required, c.Session.IsLoggedIn())
}

// Register validates the form client-side, then submits it. A
// directory.ConflictError carries the server's message for verbatim
// display; other failures are generic.
func (c *Console) Register(ctx context.Context, form Registration) error {
	if err := validate.Struct(form); err != nil {
		return err
	}
	return c.dir.Register(ctx, directory.RegisterRequest{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		PhoneNumber: form.PhoneNumber,
		DateOfBirth: form.DateOfBirth,
		Password:    form.Password,
	})
}

// Login authenticates and establishes the session from the server's
// response, overwriting any prior session.
func (c *Console) Login(ctx context.Context, email, password string) error {
	auth, err := c.dir.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return c.Session.Save(auth.Email, auth.Password, auth.Roles, auth.FirstName)
}

// Logout acknowledges server-side, then tears the session down. The local
// session is cleared even when the acknowledgement fails: a dead backend
// must not pin a client to a logged-in state.
func (c *Console) Logout(ctx context.Context) error {
	creds, err := c.credentials()
	if err != nil {
		return err
	}

	ackErr := c.dir.Logout(ctx, creds)
	c.Session.Clear()
	c.listing = nil
	return ackErr
}

// Refresh replaces the listing cache wholesale with the default-order page.
// This is the cache-invalidation policy: list-changing operations never
// patch, they re-fetch.
func (c *Console) Refresh(ctx context.Context) error {
	creds, err := c.credentials()
	if err != nil {
		return err
	}
	page, err := c.dir.ListDefault(ctx, creds, c.page, c.size)
	if err != nil {
		return err
	}
	c.replace(page)
	return nil
}

// SortByName replaces the listing with the (lastName, dateOfBirth) ordering.
func (c *Console) SortByName(ctx context.Context) error {
	creds, err := c.credentials()
	if err != nil {
		return err
	}
	page, err := c.dir.ListSortedByName(ctx, creds, c.page, c.size)
	if err != nil {
		return err
	}
	c.replace(page)
	return nil
}

// Search replaces the listing with the records matching term on field. An
// empty term is a validation error and never issues a request.
func (c *Console) Search(ctx context.Context, term string, field directory.SearchField) error {
	creds, err := c.credentials()
	if err != nil {
		return err
	}
	page, err := c.dir.Search(ctx, creds, term, field, c.page, c.size)
	if err != nil {
		return err
	}
	c.replace(page)
	return nil
}

// SelectUser fetches one record's full detail.
func (c *Console) SelectUser(ctx context.Context, email string) (*directory.UserRecord, error) {
	creds, err := c.credentials()
	if err != nil {
		return nil, err
	}
	return c.dir.GetSelected(ctx, creds, email)
}

// Delete removes the targeted account, then re-fetches the listing. The
// local record disappears only through the re-fetch, never before the
// server confirms.
func (c *Console) Delete(ctx context.Context, targetEmail string) error {
	creds, err := c.credentials()
	if err != nil {
		return err
	}
	if err := c.dir.Delete(ctx, creds, targetEmail); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// EditPhoneNumber performs the legacy single-field edit and patches the
// one matching cached record in place by email identity. This is the
// single exception to the re-fetch policy.
func (c *Console) EditPhoneNumber(ctx context.Context, targetEmail, phoneNumber string) error {
	creds, err := c.credentials()
	if err != nil {
		return err
	}
	updated, err := c.dir.EditPhoneNumber(ctx, creds, targetEmail, phoneNumber)
	if err != nil {
		return err
	}
	for i := range c.listing {
		if c.listing[i].Email == targetEmail {
			c.listing[i].PhoneNumber = updated.PhoneNumber
			break
		}
	}
	return nil
}

// EditProfile submits a partial profile edit and applies the self-edit
// reconciliation rule: when the target equals the session email captured
// before the call (the edit may change the email itself), the server's
// authoritative response, not the client-entered values, refreshes the
// session, field by field. The listing is then always re-fetched so the
// displayed identity is never stale. Editing anyone else never touches the
// session.
func (c *Console) EditProfile(ctx context.Context, targetEmail string, req directory.EditProfileRequest) error {
	creds, err := c.credentials()
	if err != nil {
		return err
	}
	selfEdit := targetEmail == creds.Email

	auth, err := c.dir.EditProfile(ctx, creds, targetEmail, req)
	if err != nil {
		return err
	}

	if selfEdit {
		if err := c.Session.Update(session.Update{
			Email:     auth.Email,
			Password:  auth.Password,
			FirstName: auth.FirstName,
			Roles:     auth.Roles,
		}); err != nil {
			return err
		}
	}

	return c.Refresh(ctx)
}

// Listing exposes the current cached page of records.
func (c *Console) Listing() []directory.UserRecord {
	return c.listing
}

// Page returns the zero-based current page index.
func (c *Console) Page() int { return c.page }

// TotalPages returns the page count reported by the last fetch.
func (c *Console) TotalPages() int { return c.totalPages }

// TotalElements returns the unpaged record count from the last fetch.
func (c *Console) TotalElements() int64 { return c.totalElements }

// SetPage moves the listing cursor; the next fetch uses it.
func (c *Console) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	c.page = page
}

// SetPageSize changes the page length; the next fetch uses it.
func (c *Console) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	c.size = size
}

func (c *Console) replace(p *directory.Page) {
	c.listing = p.Content
	c.totalPages = p.TotalPages
	c.totalElements = p.TotalElements
}

// credentials reads the session's email/password pair for use as auth
// parameters. Any missing or undecodable field reads as "not logged in".
func (c *Console) credentials() (directory.Credentials, error) {
	email, ok := c.Session.Email()
	if !ok {
		return directory.Credentials{}, ErrNotLoggedIn
	}
	password, ok := c.Session.Password()
	if !ok {
		return directory.Credentials{}, ErrNotLoggedIn
	}
	return directory.Credentials{Email: email, Password: password}, nil
}
