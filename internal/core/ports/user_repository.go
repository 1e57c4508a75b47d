package ports

import (
	"context"

	"github.com/citygram/citygram-api/internal/core/domain"
)

// ProfileUpdate carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type ProfileUpdate struct {
	Name     *string
	Username *string
	Bio      *string
	City     *string
}

// ListUsersFilter carries pagination for the admin user listing.
type ListUsersFilter struct {
	Page  int // 1-based
	Limit int
}

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByEmailOrUsername returns any user matching either value; used for
	// duplicate checks at registration.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	FindManyByIDs(ctx context.Context, ids []string) ([]*domain.User, error)

	// AddFollow adds targetID to the follower's following set and followerID
	// to the target's followers set. Both writes happen atomically: a failure
	// leaves neither side changed.
	AddFollow(ctx context.Context, followerID, targetID string) error
	// RemoveFollow is the symmetric, idempotent removal of the edge.
	RemoveFollow(ctx context.Context, followerID, targetID string) error

	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
	// List returns a page of users newest-first and the total count.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
}
