package ports

import (
	"context"

	"github.com/citygram/citygram-api/internal/core/domain"
)

// CreatePostInput carries the new-post form. The author's city is stamped by
// the service, not supplied by the caller.
type CreatePostInput struct {
	AuthorID string
	Caption  string
	Image    string
}

// PostView is a post with its author summary joined in.
type PostView struct {
	Post   *domain.Post
	Author UserSummary
}

// LikeResult is returned by ToggleLike.
type LikeResult struct {
	Liked      bool
	LikesCount int
}

// FeedResult is one page of the viewer's feed.
type FeedResult struct {
	Page       int
	Limit      int
	TotalPosts int64
	TotalPages int
	Posts      []PostView
}

// PostService covers content operations and the city/following-scoped feed.
type PostService interface {
	Create(ctx context.Context, input CreatePostInput) (*PostView, error)
	// ListAll returns every post newest-first with authors joined.
	ListAll(ctx context.Context) ([]PostView, error)
	// Delete removes a post; only its author may do so.
	Delete(ctx context.Context, actorID, postID string) error
	// ToggleLike flips the actor's membership in the like set.
	ToggleLike(ctx context.Context, actorID, postID string) (*LikeResult, error)
	// AddComment appends free text and returns the full updated list.
	AddComment(ctx context.Context, actorID, postID, text string) ([]domain.Comment, error)
	// Feed returns the paginated posts visible to the viewer: authors they
	// follow, or posts from the viewer's own city.
	Feed(ctx context.Context, viewerID string, page, limit int) (*FeedResult, error)
}
