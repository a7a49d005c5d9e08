// Package directory is the typed client for the user-directory REST
// backend. Every authenticated call carries the caller's own email and
// password as request parameters; the contract has no bearer tokens or
// cookies, each call re-authenticates. Calls fail on any non-success
// status; nothing is retried and no timeout is imposed beyond the caller's
// context.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stansns/crud/internal/core/domain"
)

// Sentinel errors surfaced to the UI layer.
var (
	// ErrInvalidCredentials is the single generic login failure. It
	// deliberately does not reveal which part of the credential was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmptySearchTerm rejects a blank search before any request is
	// issued.
	ErrEmptySearchTerm = errors.New("search term must not be empty")

	// ErrRequestFailed covers every other non-success response. The real
	// cause is logged, not exposed.
	ErrRequestFailed = errors.New("request failed")
)

// ConflictError is the one case where the server's own message is surfaced
// verbatim: a registration rejected with the distinguished conflict status.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// statusConflict is the non-standard code (226 IM Used) the backend uses to
// signal a handled registration rejection with a user-facing message.
const statusConflict = http.StatusIMUsed

// Credentials is the (email, password) pair sent as auth parameters.
type Credentials struct {
	Email    string
	Password string
}

// SearchField selects which record field a search term matches against.
type SearchField string

const (
	SearchFirstName   SearchField = domain.SearchByFirstName
	SearchLastName    SearchField = domain.SearchByLastName
	SearchPhoneNumber SearchField = domain.SearchByPhoneNumber
	SearchEmail       SearchField = domain.SearchByEmail
)

// UserRecord is the transient client-side copy of a server-owned record.
type UserRecord struct {
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	DateOfBirth  string        `json:"dateOfBirth"`
	PhoneNumber  string        `json:"phoneNumber"`
	Email        string        `json:"email"`
	RegisterDate string        `json:"registerDate,omitempty"`
	Country      string        `json:"country,omitempty"`
	Currency     string        `json:"currency,omitempty"`
	City         string        `json:"city,omitempty"`
	Roles        []domain.Role `json:"roles"`
}

// Page mirrors the server's page envelope.
type Page struct {
	Content       []UserRecord `json:"content"`
	Number        int          `json:"number"`
	Size          int          `json:"size"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
	First         bool         `json:"first"`
	Last          bool         `json:"last"`
}

// AuthResponse carries the identity fields a session is built or refreshed
// from. On a self-edit response, empty fields mean "unchanged".
type AuthResponse struct {
	Email     string        `json:"email"`
	Password  string        `json:"password"`
	FirstName string        `json:"firstName"`
	Roles     []domain.Role `json:"roles"`
}

// RegisterRequest is the full registration payload.
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth"`
	Password    string `json:"password"`
}

// EditProfileRequest is a partial profile edit; empty fields are left
// untouched server-side.
type EditProfileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// Client talks to one backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient builds a directory client. httpClient may be nil, in which case
// http.DefaultClient is used, without a timeout, matching the
// original's behaviour of letting a hung request hang its control.
func NewClient(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

// Login authenticates and returns the identity the session is built from.
// Every failure, wrong password, unknown account, or server trouble, is
// normalized to ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/login", nil, body)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Debug().Int("status", resp.StatusCode).Msg("login rejected")
		return nil, ErrInvalidCredentials
	}

	var auth AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &auth, nil
}

// Register creates a new account. A conflict status surfaces the server's
// message verbatim through ConflictError; other failures are generic.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return c.fail("register", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/register", nil, body)
	if err != nil {
		return c.fail("register", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == statusConflict:
		msg, _ := io.ReadAll(resp.Body)
		return &ConflictError{Message: strings.TrimSpace(string(msg))}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return c.failStatus("register", resp.StatusCode)
	}
}

// ListDefault fetches one page in the server's natural order.
func (c *Client) ListDefault(ctx context.Context, creds Credentials, page, size int) (*Page, error) {
	return c.listing(ctx, creds, domain.ActionAllUsersDefault, nil, page, size)
}

// ListSortedByName fetches one page ordered by (lastName, dateOfBirth)
// ascending.
func (c *Client) ListSortedByName(ctx context.Context, creds Credentials, page, size int) (*Page, error) {
	return c.listing(ctx, creds, domain.ActionAllUsersSortedByName, nil, page, size)
}

// Search fetches the page of records whose field matches term. An empty
// term is rejected client-side; no request is issued.
func (c *Client) Search(ctx context.Context, creds Credentials, term string, field SearchField, page, size int) (*Page, error) {
	if strings.TrimSpace(term) == "" {
		return nil, ErrEmptySearchTerm
	}
	extra := url.Values{}
	extra.Set("searchTerm", term)
	extra.Set("selectedSearchOption", string(field))
	return c.listing(ctx, creds, domain.ActionAllUsersFoundByParam, extra, page, size)
}

// GetSelected fetches the full detail of one record.
func (c *Client) GetSelected(ctx context.Context, creds Credentials, selectedEmail string) (*UserRecord, error) {
	q := c.authQuery(creds)
	q.Set("action", domain.ActionGetSelectedUser)
	q.Set("selectedUserEmail", selectedEmail)
	q.Set("currentPage", "0")
	q.Set("sizeOnPage", "1")

	resp, err := c.do(ctx, http.MethodGet, "/home", q, nil)
	if err != nil {
		return nil, c.fail("get selected user", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.failStatus("get selected user", resp.StatusCode)
	}

	var record UserRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, c.fail("get selected user", err)
	}
	return &record, nil
}

// Delete removes the targeted account. Callers must not drop the record
// from any local listing until this returns nil.
func (c *Client) Delete(ctx context.Context, creds Credentials, targetEmail string) error {
	q := c.authQuery(creds)
	q.Set("userToDeleteEmail", targetEmail)

	resp, err := c.do(ctx, http.MethodDelete, "/home", q, nil)
	if err != nil {
		return c.fail("delete user", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.failStatus("delete user", resp.StatusCode)
	}
	return nil
}

// EditPhoneNumber is the legacy single-field edit; it returns the updated
// record fragment for an in-place patch of the local listing.
func (c *Client) EditPhoneNumber(ctx context.Context, creds Credentials, targetEmail, phoneNumber string) (*UserRecord, error) {
	q := c.authQuery(creds)
	q.Set("emailUserToChange", targetEmail)
	q.Set("phoneNumberToChange", phoneNumber)

	resp, err := c.do(ctx, http.MethodPatch, "/home", q, nil)
	if err != nil {
		return nil, c.fail("edit phone number", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.failStatus("edit phone number", resp.StatusCode)
	}

	var record UserRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, c.fail("edit phone number", err)
	}
	return &record, nil
}

// EditProfile submits a partial profile edit. When the target is the caller
// themselves the response carries the identity fields the session must be
// refreshed from.
func (c *Client) EditProfile(ctx context.Context, creds Credentials, targetEmail string, req EditProfileRequest) (*AuthResponse, error) {
	q := c.authQuery(creds)
	q.Set("emailUserToChange", targetEmail)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, c.fail("edit profile", err)
	}

	resp, err := c.do(ctx, http.MethodPut, "/home", q, body)
	if err != nil {
		return nil, c.fail("edit profile", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.failStatus("edit profile", resp.StatusCode)
	}

	var auth AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, c.fail("edit profile", err)
	}
	return &auth, nil
}

// Logout acknowledges the logout server-side.
func (c *Client) Logout(ctx context.Context, creds Credentials) error {
	resp, err := c.do(ctx, http.MethodPost, "/home", c.authQuery(creds), nil)
	if err != nil {
		return c.fail("logout", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.failStatus("logout", resp.StatusCode)
	}
	return nil
}

func (c *Client) listing(ctx context.Context, creds Credentials, action string, extra url.Values, page, size int) (*Page, error) {
	q := c.authQuery(creds)
	q.Set("action", action)
	q.Set("currentPage", strconv.Itoa(page))
	q.Set("sizeOnPage", strconv.Itoa(size))
	for k, vs := range extra {
		for _, v := range vs {
			q.Set(k, v)
		}
	}

	resp, err := c.do(ctx, http.MethodGet, "/home", q, nil)
	if err != nil {
		return nil, c.fail(action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.failStatus(action, resp.StatusCode)
	}

	var p Page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, c.fail(action, err)
	}
	return &p, nil
}

func (c *Client) authQuery(creds Credentials) url.Values {
	q := url.Values{}
	q.Set("email", creds.Email)
	q.Set("password", creds.Password)
	return q
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// fail logs the real cause and returns the generic failure the UI shows.
func (c *Client) fail(op string, err error) error {
	c.log.Error().Err(err).Str("op", op).Msg("directory request failed")
	return fmt.Errorf("%s: %w", op, ErrRequestFailed)
}

func (c *Client) failStatus(op string, status int) error {
	c.log.Error().Int("status", status).Str("op", op).Msg("directory request rejected")
	return fmt.Errorf("%s: status %d: %w", op, status, ErrRequestFailed)
}
