package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/citygram/citygram-api/internal/api/metrics"
	"github.com/citygram/citygram-api/internal/core/domain"
	"github.com/citygram/citygram-api/internal/core/ports"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// UserService covers profiles and the follow graph.
type UserService struct {
	repo     ports.UserRepository
	presence ports.PresenceStore
	activity ports.ActivityPublisher
	logger   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, presence ports.PresenceStore, activity ports.ActivityPublisher, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, presence: presence, activity: activity, logger: logger}
}

// MyProfile returns the viewer's own record with followers and following
// populated as summaries.
func (s *UserService) MyProfile(ctx context.Context, viewerID string) (*ports.Profile, error) {
	user, err := s.repo.FindByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	s.mergePresence(ctx, user)

	followers, err := s.summaries(ctx, user.Followers)
	if err != nil {
		return nil, err
	}
	following, err := s.summaries(ctx, user.Following)
	if err != nil {
		return nil, err
	}

	return &ports.Profile{User: user, Followers: followers, Following: following}, nil
}

// Profile returns another user's public profile. The email stays private.
func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Email = ""
	s.mergePresence(ctx, user)
	return user, nil
}

func (s *UserService) Follow(ctx context.Context, viewerID, targetID string) error {
	if viewerID == targetID {
		return domain.ErrSelfFollow
	}

	if _, err := s.repo.FindByID(ctx, targetID); err != nil {
		return err
	}

	viewer, err := s.repo.FindByID(ctx, viewerID)
	if err != nil {
		return err
	}
	if viewer.IsFollowing(targetID) {
		return domain.ErrAlreadyFollowing
	}

	if err := s.repo.AddFollow(ctx, viewerID, targetID); err != nil {
		s.logger.Error().Err(err).Str("follower_id", viewerID).Str("target_id", targetID).Msg("follow failed")
		return err
	}

	metrics.FollowsTotal.WithLabelValues("follow").Inc()
	s.activity.Publish(ports.ActivityInput{
		Type:         domain.ActivityFollow,
		ActorID:      viewerID,
		TargetUserID: targetID,
	})
	return nil
}

// Unfollow removes the edge from both sides. Unfollowing someone not
// currently followed is a no-op.
func (s *UserService) Unfollow(ctx context.Context, viewerID, targetID string) error {
	if viewerID == targetID {
		return nil
	}
	if err := s.repo.RemoveFollow(ctx, viewerID, targetID); err != nil {
		s.logger.Error().Err(err).Str("follower_id", viewerID).Str("target_id", targetID).Msg("unfollow failed")
		return err
	}
	metrics.FollowsTotal.WithLabelValues("unfollow").Inc()
	return nil
}

func (s *UserService) UpdateProfile(ctx context.Context, viewerID string, update ports.ProfileUpdate) (*domain.User, error) {
	if update.Bio != nil && len(*update.Bio) > domain.MaxBioLength {
		return nil, domain.ErrBioTooLong
	}

	if update.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*update.Username))
		if username == "" {
			return nil, domain.ErrMissingFields
		}
		update.Username = &username

		existing, err := s.repo.FindByUsername(ctx, username)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != viewerID {
			return nil, domain.ErrUserExists
		}
	}

	updated, err := s.repo.UpdateProfile(ctx, viewerID, update)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", viewerID).Msg("profile updated")
	return updated, nil
}

// ListUsers is the admin-only paginated account listing.
func (s *UserService) ListUsers(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.PasswordHash = ""
	}

	return &ports.ListUsersResult{
		Items:      users,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// summaries resolves user IDs to lightweight views, skipping IDs that no
// longer resolve.
func (s *UserService) summaries(ctx context.Context, ids []string) ([]ports.UserSummary, error) {
	if len(ids) == 0 {
		return []ports.UserSummary{}, nil
	}
	users, err := s.repo.FindManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ports.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, ports.UserSummary{ID: u.ID, Name: u.Name, Username: u.Username, Avatar: u.Avatar})
	}
	return out, nil
}

// mergePresence overlays live presence onto the user record. Presence is
// best-effort: a store failure leaves the user marked offline.
func (s *UserService) mergePresence(ctx context.Context, user *domain.User) {
	if s.presence == nil {
		return
	}
	p, err := s.presence.Get(ctx, user.ID)
	if err != nil {
		s.logger.Debug().Err(err).Str("user_id", user.ID).Msg("presence lookup failed")
		return
	}
	user.IsOnline = p.Online
	user.LastSeen = p.LastSeen
}
