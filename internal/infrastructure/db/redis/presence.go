package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/citygram/citygram-api/internal/core/domain"
)

// onlineTTL is how long a user counts as online after their last request.
const onlineTTL = 5 * time.Minute

// PresenceStore tracks live user presence in Redis.
// Key formats:
//
//	presence:online:<user_id>   – "1" with onlineTTL, existence means online
//	presence:seen:<user_id>     – last-seen timestamp, no expiry
type PresenceStore struct {
	client *redis.Client
}

// NewPresenceStore creates a PresenceStore wrapping the given Redis client.
func NewPresenceStore(client *redis.Client) *PresenceStore {
	return &PresenceStore{client: client}
}

// Touch marks the user online and refreshes their last-seen timestamp.
func (s *PresenceStore) Touch(ctx context.Context, userID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, onlineKey(userID), "1", onlineTTL)
	pipe.Set(ctx, seenKey(userID), now, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence touch: %w", err)
	}
	return nil
}

// Get reads the user's live presence. A user with no recorded presence is
// simply offline with a zero last-seen time.
func (s *PresenceStore) Get(ctx context.Context, userID string) (domain.Presence, error) {
	online, err := s.client.Exists(ctx, onlineKey(userID)).Result()
	if err != nil {
		return domain.Presence{}, fmt.Errorf("presence check: %w", err)
	}

	p := domain.Presence{Online: online > 0}

	seen, err := s.client.Get(ctx, seenKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return p, nil
		}
		return domain.Presence{}, fmt.Errorf("presence last seen: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339, seen); err == nil {
		p.LastSeen = ts
	}
	return p, nil
}

func onlineKey(userID string) string { return "presence:online:" + userID }
func seenKey(userID string) string   { return "presence:seen:" + userID }
