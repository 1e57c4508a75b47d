package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/citygram/citygram-api/internal/api/metrics"
	"github.com/citygram/citygram-api/internal/core/domain"
	"github.com/citygram/citygram-api/internal/core/ports"
)

const (
	defaultFeedLimit = 5
	maxFeedLimit     = 100
)

// PostService covers content operations and the feed.
type PostService struct {
	posts    ports.PostRepository
	users    ports.UserRepository
	activity ports.ActivityPublisher
	logger   zerolog.Logger
}

func NewPostService(posts ports.PostRepository, users ports.UserRepository, activity ports.ActivityPublisher, logger zerolog.Logger) *PostService {
	return &PostService{posts: posts, users: users, activity: activity, logger: logger}
}

// Create stores a new post stamped with the author's current city. The copy
// is deliberate: the feed scopes by where the author lived at post time.
func (s *PostService) Create(ctx context.Context, input ports.CreatePostInput) (*ports.PostView, error) {
	author, err := s.users.FindByID(ctx, input.AuthorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &domain.Post{
		AuthorID:  author.ID,
		Caption:   strings.TrimSpace(input.Caption),
		Image:     input.Image,
		City:      author.City,
		Likes:     []string{},
		Comments:  []domain.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		s.logger.Error().Err(err).Str("author_id", author.ID).Msg("failed to create post")
		return nil, err
	}

	metrics.PostsCreatedTotal.Inc()
	s.logger.Info().Str("post_id", created.ID).Str("author_id", author.ID).Str("city", created.City).Msg("post created")

	return &ports.PostView{Post: created, Author: summaryOf(author)}, nil
}

// ListAll returns every post newest-first with author summaries joined in.
func (s *PostService) ListAll(ctx context.Context) ([]ports.PostView, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.joinAuthors(ctx, posts)
}

func (s *PostService) Delete(ctx context.Context, actorID, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return domain.ErrNotPostAuthor
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	s.logger.Info().Str("post_id", postID).Str("author_id", actorID).Msg("post deleted")
	return nil
}

// ToggleLike flips the actor's membership in the like set. The underlying
// writes have set semantics, so rapid repeats net out to a toggle rather
// than accumulating.
func (s *PostService) ToggleLike(ctx context.Context, actorID, postID string) (*ports.LikeResult, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	like := !post.LikedBy(actorID)
	count, err := s.posts.SetLike(ctx, postID, actorID, like)
	if err != nil {
		return nil, err
	}

	if like {
		metrics.LikesToggledTotal.WithLabelValues("like").Inc()
		if post.AuthorID != actorID {
			s.activity.Publish(ports.ActivityInput{
				Type:         domain.ActivityLike,
				ActorID:      actorID,
				TargetUserID: post.AuthorID,
				PostID:       postID,
			})
		}
	} else {
		metrics.LikesToggledTotal.WithLabelValues("unlike").Inc()
	}

	return &ports.LikeResult{Liked: like, LikesCount: count}, nil
}

// AddComment appends free text to the post's comment list. No content
// validation beyond presence is applied.
func (s *PostService) AddComment(ctx context.Context, actorID, postID, text string) ([]domain.Comment, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := domain.Comment{
		AuthorID:  actorID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	comments, err := s.posts.AppendComment(ctx, postID, comment)
	if err != nil {
		return nil, err
	}

	metrics.CommentsAddedTotal.Inc()
	if post.AuthorID != actorID {
		s.activity.Publish(ports.ActivityInput{
			Type:         domain.ActivityComment,
			ActorID:      actorID,
			TargetUserID: post.AuthorID,
			PostID:       postID,
		})
	}
	return comments, nil
}

// Feed returns one page of posts visible to the viewer: authored by someone
// they follow, or stamped with their city. Offset pagination; concurrent
// inserts can shift rows between page fetches, which is acceptable here.
func (s *PostService) Feed(ctx context.Context, viewerID string, page, limit int) (*ports.FeedResult, error) {
	start := time.Now()

	viewer, err := s.users.FindByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	posts, total, err := s.posts.Feed(ctx, ports.FeedFilter{
		FollowingIDs: viewer.Following,
		City:         viewer.City,
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}

	views, err := s.joinAuthors(ctx, posts)
	if err != nil {
		return nil, err
	}

	metrics.FeedRequestDuration.Observe(time.Since(start).Seconds())

	return &ports.FeedResult{
		Page:       page,
		Limit:      limit,
		TotalPosts: total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Posts:      views,
	}, nil
}

// joinAuthors resolves each post's author to a summary in one batched read.
// Posts whose author no longer resolves keep a zero-valued summary.
func (s *PostService) joinAuthors(ctx context.Context, posts []*domain.Post) ([]ports.PostView, error) {
	ids := make([]string, 0, len(posts))
	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; !ok {
			seen[p.AuthorID] = struct{}{}
			ids = append(ids, p.AuthorID)
		}
	}

	byID := make(map[string]ports.UserSummary, len(ids))
	if len(ids) > 0 {
		authors, err := s.users.FindManyByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, a := range authors {
			byID[a.ID] = summaryOf(a)
		}
	}

	views := make([]ports.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, ports.PostView{Post: p, Author: byID[p.AuthorID]})
	}
	return views, nil
}

func summaryOf(u *domain.User) ports.UserSummary {
	return ports.UserSummary{ID: u.ID, Name: u.Name, Username: u.Username, Avatar: u.Avatar}
}
