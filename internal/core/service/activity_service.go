package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/citygram/citygram-api/internal/api/metrics"
	"github.com/citygram/citygram-api/internal/core/domain"
	"github.com/citygram/citygram-api/internal/core/ports"
)

const defaultActivityLimit = 50

// ActivityService persists activity records and serves the notification
// listing. Record is called from the dispatcher workers, never from the
// request path.
type ActivityService struct {
	repo   ports.ActivityRepository
	logger zerolog.Logger
}

func NewActivityService(repo ports.ActivityRepository, logger zerolog.Logger) *ActivityService {
	return &ActivityService{repo: repo, logger: logger}
}

func (s *ActivityService) Record(ctx context.Context, input ports.ActivityInput) error {
	activity := &domain.Activity{
		Type:         input.Type,
		ActorID:      input.ActorID,
		TargetUserID: input.TargetUserID,
		PostID:       input.PostID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, activity); err != nil {
		metrics.ActivitiesErrorsTotal.Inc()
		return err
	}

	metrics.ActivitiesRecordedTotal.WithLabelValues(string(input.Type)).Inc()
	return nil
}

func (s *ActivityService) ListForUser(ctx context.Context, userID string, limit int) ([]*domain.Activity, error) {
	if limit <= 0 || limit > defaultActivityLimit {
		limit = defaultActivityLimit
	}
	return s.repo.ListByTarget(ctx, userID, limit)
}
