package handler

import (
	"time"

	"github.com/shopkit/accounts-api/internal/core/domain"
	"github.com/shopkit/accounts-api/internal/core/ports"
)

// errorResponse is the error envelope. Error is a string, or a list of
// per-field messages when the store rejected the record.
type errorResponse struct {
	Error any `json:"error"`
}

// --- Requests ---

type createAccountRequest struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	Role            string  `json:"role"`
	Status          string  `json:"status,omitempty"`
	Firstname       string  `json:"firstname,omitempty"`
	Lastname        string  `json:"lastname,omitempty"`
	Phone           *string `json:"phone,omitempty"`
}

func (r createAccountRequest) toInput() ports.CreateAccountInput {
	return ports.CreateAccountInput{
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		Role:            r.Role,
		Status:          r.Status,
		Firstname:       r.Firstname,
		Lastname:        r.Lastname,
		Phone:           r.Phone,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Responses ---

// simpleUserResponse is the create response for the simple schema.
type simpleUserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// extendedUserResponse is the create response for the extended schema: the
// stored record without the password hash.
type extendedUserResponse struct {
	ID        int64     `json:"id"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type simpleLoginUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Token     string    `json:"token"`
}

type extendedLoginUser struct {
	ID        int64   `json:"id"`
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Role      string  `json:"role"`
	Status    string  `json:"status"`
	Token     string  `json:"token"`
}

type loginResponse struct {
	User any `json:"user"`
}

func toCreateResponse(schema domain.Schema, u *domain.User) any {
	if schema == domain.SchemaExtended {
		return extendedUserResponse{
			ID:        u.ID,
			Firstname: u.Firstname,
			Lastname:  u.Lastname,
			Email:     u.Email,
			Phone:     u.Phone,
			Role:      u.Role,
			Status:    u.Status,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		}
	}
	return simpleUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toLoginResponse(schema domain.Schema, res *ports.LoginResult) loginResponse {
	u := res.User
	if schema == domain.SchemaExtended {
		return loginResponse{User: extendedLoginUser{
			ID:        u.ID,
			Firstname: u.Firstname,
			Lastname:  u.Lastname,
			Email:     u.Email,
			Phone:     u.Phone,
			Role:      u.Role,
			Status:    u.Status,
			Token:     res.Token,
		}}
	}
	return loginResponse{User: simpleLoginUser{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		Token:     res.Token,
	}}
}
