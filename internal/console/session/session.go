// Package session holds the client-side record of the currently
// authenticated identity: email, password, role set, and first name,
// obfuscated at rest in a key-value store. The session is a singleton per
// store: either absent or complete; a partially written session is treated
// as absent by every predicate.
package session

import (
	"github.com/stansns/crud/internal/console/codec"
	"github.com/stansns/crud/internal/console/storage"
	"github.com/stansns/crud/internal/core/domain"
)

// Storage keys, carried over verbatim from the original frontend.
const (
	keyEmail     = "Email"
	keyPassword  = "Password"
	keyRoles     = "Roles"
	keyFirstName = "First Name"
)

// Store reads and writes the session against a KV backing. It performs no
// locking of its own: there is one logical writer at a time, and the KV is
// atomic per key.
type Store struct {
	kv storage.KV
}

func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// Save establishes a fresh session, overwriting any prior one
// unconditionally. All four fields are encoded before the first write so an
// encoding failure cannot leave a partial session behind.
func (s *Store) Save(email, password string, roles []domain.Role, firstName string) error {
	encEmail, err := codec.Encode(email)
	if err != nil {
		return err
	}
	encPassword, err := codec.Encode(password)
	if err != nil {
		return err
	}
	encRoles, err := codec.Encode(roles)
	if err != nil {
		return err
	}
	encFirstName, err := codec.Encode(firstName)
	if err != nil {
		return err
	}

	s.kv.Set(keyEmail, encEmail)
	s.kv.Set(keyPassword, encPassword)
	s.kv.Set(keyRoles, encRoles)
	s.kv.Set(keyFirstName, encFirstName)
	return nil
}

// Update is the selective refresh a successful self-edit feeds: each
// non-empty field is re-encoded and overwritten, empty fields are no-ops.
// Fields the user did not change keep their current session value.
type Update struct {
	Email     string
	Password  string
	FirstName string
	Roles     []domain.Role
}

func (s *Store) Update(u Update) error {
	if u.Email != "" {
		enc, err := codec.Encode(u.Email)
		if err != nil {
			return err
		}
		s.kv.Set(keyEmail, enc)
	}
	if u.Password != "" {
		enc, err := codec.Encode(u.Password)
		if err != nil {
			return err
		}
		s.kv.Set(keyPassword, enc)
	}
	if u.FirstName != "" {
		enc, err := codec.Encode(u.FirstName)
		if err != nil {
			return err
		}
		s.kv.Set(keyFirstName, enc)
	}
	if len(u.Roles) > 0 {
		enc, err := codec.Encode(u.Roles)
		if err != nil {
			return err
		}
		s.kv.Set(keyRoles, enc)
	}
	return nil
}

// Clear tears the session down; used on logout.
func (s *Store) Clear() {
	s.kv.Remove(keyEmail)
	s.kv.Remove(keyPassword)
	s.kv.Remove(keyRoles)
	s.kv.Remove(keyFirstName)
}

// Email returns the decoded session email, or false when absent or
// undecodable.
func (s *Store) Email() (string, bool) {
	return s.readString(keyEmail)
}

// Password returns the decoded session password.
func (s *Store) Password() (string, bool) {
	return s.readString(keyPassword)
}

// FirstName returns the decoded session first name.
func (s *Store) FirstName() (string, bool) {
	return s.readString(keyFirstName)
}

// Roles returns the decoded session role set.
func (s *Store) Roles() ([]domain.Role, bool) {
	raw, ok := s.kv.Get(keyRoles)
	if !ok {
		return nil, false
	}
	var roles []domain.Role
	if !codec.Decode(raw, &roles) {
		return nil, false
	}
	return roles, true
}

// IsLoggedIn reports whether a complete session exists. It is an existence
// check only, with no decoding; any missing field means "not logged in".
func (s *Store) IsLoggedIn() bool {
	for _, key := range []string{keyEmail, keyPassword, keyRoles, keyFirstName} {
		if _, ok := s.kv.Get(key); !ok {
			return false
		}
	}
	return true
}

// IsAdministrator reports whether the session's role set contains ADMIN.
// Absent or undecodable roles yield false, never an error.
func (s *Store) IsAdministrator() bool {
	roles, ok := s.Roles()
	if !ok {
		return false
	}
	return domain.HasAdmin(roles)
}

func (s *Store) readString(key string) (string, bool) {
	raw, ok := s.kv.Get(key)
	if !ok {
		return "", false
	}
	var v string
	if !codec.Decode(raw, &v) {
		return "", false
	}
	return v, true
}
