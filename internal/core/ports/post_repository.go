package ports

import (
	"context"

	"github.com/citygram/citygram-api/internal/core/domain"
)

// FeedFilter selects posts visible to a viewer: authored by someone the
// viewer follows, or stamped with the viewer's city.
type FeedFilter struct {
	FollowingIDs []string
	City         string
	Page         int // 1-based
	Limit        int
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	Delete(ctx context.Context, id string) error

	// SetLike adds (like=true) or removes (like=false) actorID from the
	// post's like set with set semantics and returns the resulting count.
	SetLike(ctx context.Context, postID, actorID string, like bool) (int, error)

	// AppendComment appends the comment and returns the full updated list.
	AppendComment(ctx context.Context, postID string, comment domain.Comment) ([]domain.Comment, error)

	// ListAll returns every post newest-first.
	ListAll(ctx context.Context) ([]*domain.Post, error)
	// Feed returns a page of posts matching filter, newest-first, plus the
	// total matching count.
	Feed(ctx context.Context, filter FeedFilter) ([]*domain.Post, int64, error)
}
