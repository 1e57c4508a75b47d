package handler

import "github.com/citygram/citygram-api/internal/core/domain"

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	City     string `json:"city"     validate:"required"`
}

type loginRequest struct {
	Email      string `json:"email"    validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

// authResponse is returned by register and login. The session token travels
// only in the HTTP-only cookie, never in the body.
type authResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// messageResponse is the generic success envelope.
type messageResponse struct {
	Message string `json:"message"`
}
