package ports

import (
	"context"

	"github.com/citygram/citygram-api/internal/core/domain"
)

// PresenceStore tracks which users are currently online. Touch is called on
// every authenticated request; a user is online while their mark has not
// expired.
type PresenceStore interface {
	Touch(ctx context.Context, userID string) error
	Get(ctx context.Context, userID string) (domain.Presence, error)
}
