package ports

import (
	"context"

	"github.com/citygram/citygram-api/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
	City     string
}

// AuthService implements registration, login and session resolution.
type AuthService interface {
	// Register creates the account and returns it together with a signed
	// session token. The returned user never carries the password hash
	// outward (the field is excluded from serialization).
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	// Login verifies credentials and issues a session token. Unknown email
	// and wrong password are indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// CurrentUser resolves an authenticated user ID to its record.
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}
