package domain

import "time"

// ActivityType classifies a social event recorded for the target user.
type ActivityType string

const (
	ActivityFollow  ActivityType = "follow"
	ActivityLike    ActivityType = "like"
	ActivityComment ActivityType = "comment"
)

// Activity is a notification-style record: actor did something that concerns
// the target user (followed them, liked or commented on their post).
type Activity struct {
	ID           string       `json:"id"`
	Type         ActivityType `json:"type"`
	ActorID      string       `json:"actor_id"`
	TargetUserID string       `json:"target_user_id"`
	PostID       string       `json:"post_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
