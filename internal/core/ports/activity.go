package ports

import (
	"context"

	"github.com/citygram/citygram-api/internal/core/domain"
)

// ActivityInput is the DTO handed from services to the activity pipeline.
type ActivityInput struct {
	Type         domain.ActivityType
	ActorID      string
	TargetUserID string
	PostID       string // empty for follow activities
}

// ActivityPublisher enqueues an activity for asynchronous recording.
// Implementations must not block the caller beyond buffer capacity.
type ActivityPublisher interface {
	Publish(input ActivityInput)
}

// ActivityRepository persists and reads activity records.
type ActivityRepository interface {
	Insert(ctx context.Context, activity *domain.Activity) error
	// ListByTarget returns the newest activities addressed to userID.
	ListByTarget(ctx context.Context, userID string, limit int) ([]*domain.Activity, error)
}

// ActivityService records activities and serves the notification listing.
type ActivityService interface {
	Record(ctx context.Context, input ActivityInput) error
	ListForUser(ctx context.Context, userID string, limit int) ([]*domain.Activity, error)
}
