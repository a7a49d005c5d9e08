package handler

import (
	"github.com/stansns/crud/internal/core/domain"
	"github.com/stansns/crud/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---
//
// Response-only types are owned by the transport layer and deliberately
// separate from ports/domain types so the JSON contract is not coupled to
// internal service changes.

type roleResponse struct {
	Name string `json:"name"`
}

type userResponse struct {
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	DateOfBirth  string         `json:"dateOfBirth"`
	PhoneNumber  string         `json:"phoneNumber"`
	Email        string         `json:"email"`
	RegisterDate string         `json:"registerDate,omitempty"`
	Country      string         `json:"country,omitempty"`
	Currency     string         `json:"currency,omitempty"`
	City         string         `json:"city,omitempty"`
	Roles        []roleResponse `json:"roles"`
}

// pageResponse is the page envelope every listing action renders.
type pageResponse struct {
	Content       []userResponse `json:"content"`
	Number        int            `json:"number"`
	Size          int            `json:"size"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	First         bool           `json:"first"`
	Last          bool           `json:"last"`
}

// authResponse carries the identity fields the client session is built
// from. On edit responses, empty fields mean "unchanged".
type authResponse struct {
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	FirstName string         `json:"firstName"`
	Roles     []roleResponse `json:"roles"`
}

// editDetailsRequest is the partial profile carried by PUT /home. Empty
// fields are left untouched.
type editDetailsRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// --- Mapping helpers ---

func toRoleResponses(roles []domain.Role) []roleResponse {
	out := make([]roleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleResponse{Name: r.Name})
	}
	return out
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		DateOfBirth:  u.DateOfBirth,
		PhoneNumber:  u.PhoneNumber,
		Email:        u.Email,
		RegisterDate: u.RegisterDate,
		Country:      u.Country,
		Currency:     u.Currency,
		City:         u.City,
		Roles:        toRoleResponses(u.Roles),
	}
}

func toPageResponse(p *domain.UserPage) pageResponse {
	content := make([]userResponse, 0, len(p.Users))
	for _, u := range p.Users {
		content = append(content, toUserResponse(u))
	}
	return pageResponse{
		Content:       content,
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		First:         p.Number == 0,
		Last:          p.Number >= p.TotalPages-1,
	}
}

func toAuthResponse(a *ports.AuthResult) authResponse {
	return authResponse{
		Email:     a.Email,
		Password:  a.Password,
		FirstName: a.FirstName,
		Roles:     toRoleResponses(a.Roles),
	}
}
