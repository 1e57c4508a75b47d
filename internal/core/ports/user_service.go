package ports

import (
	"context"

	"github.com/citygram/citygram-api/internal/core/domain"
)

// UserSummary is the lightweight user view joined into follow lists, posts
// and comments.
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Profile is a user record with its follow lists populated as summaries and
// live presence merged in.
type Profile struct {
	User      *domain.User
	Followers []UserSummary
	Following []UserSummary
}

// ListUsersResult is returned by the admin user listing.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService covers profiles and the follow graph.
type UserService interface {
	// MyProfile returns the viewer's own record with populated follow lists.
	MyProfile(ctx context.Context, viewerID string) (*Profile, error)
	// Profile returns another user's public profile.
	Profile(ctx context.Context, userID string) (*domain.User, error)
	Follow(ctx context.Context, viewerID, targetID string) error
	Unfollow(ctx context.Context, viewerID, targetID string) error
	UpdateProfile(ctx context.Context, viewerID string, update ProfileUpdate) (*domain.User, error)
	// ListUsers is the admin-only paginated account listing.
	ListUsers(ctx context.Context, filter ListUsersFilter) (*ListUsersResult, error)
}
