package domain

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Role is a named capability attached to a user. The distinguished name
// "ADMIN" grants administrator actions (deleting users, editing any phone
// number).
type Role struct {
	Name string `json:"name"`
}

// User models a registered account. Email is the identity key and is unique
// across the directory. Dates are stored as display strings in the legacy
// dd/MM/yyyy format the original system used.
type User struct {
	ID           string `json:"id,omitempty"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	DateOfBirth  string `json:"dateOfBirth"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	RegisterDate string `json:"registerDate"`
	Country      string `json:"country"`
	Currency     string `json:"currency"`
	City         string `json:"city"`
	Roles        []Role `json:"roles"`
}

// IsAdmin reports whether the user carries the ADMIN role.
func (u *User) IsAdmin() bool {
	return HasAdmin(u.Roles)
}

// HasAdmin reports whether a role set contains the ADMIN role.
func HasAdmin(roles []Role) bool {
	for _, r := range roles {
		if r.Name == RoleAdmin {
			return true
		}
	}
	return false
}

// RoleNames flattens a role set to its names, preserving order.
func RoleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}

// UserPage is one page of a listing query plus the pagination bookkeeping
// the page envelope is rendered from.
type UserPage struct {
	Users         []*User
	Number        int
	Size          int
	TotalElements int64
	TotalPages    int
}
