package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/citygram/citygram-api/internal/core/domain"
)

const collectionActivities = "activities"

// ActivityRepository persists the notification-style activity records
// written by the async dispatcher.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(collectionActivities)}
}

type activityDoc struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty"`
	Type         string              `bson:"type"`
	ActorID      primitive.ObjectID  `bson:"actor_id"`
	TargetUserID primitive.ObjectID  `bson:"target_user_id"`
	PostID       *primitive.ObjectID `bson:"post_id,omitempty"`
	CreatedAt    time.Time           `bson:"created_at"`
}

func (r *ActivityRepository) Insert(ctx context.Context, activity *domain.Activity) error {
	actorOID, err := primitive.ObjectIDFromHex(activity.ActorID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	targetOID, err := primitive.ObjectIDFromHex(activity.TargetUserID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	doc := activityDoc{
		Type:         string(activity.Type),
		ActorID:      actorOID,
		TargetUserID: targetOID,
		CreatedAt:    activity.CreatedAt,
	}
	if activity.PostID != "" {
		postOID, err := primitive.ObjectIDFromHex(activity.PostID)
		if err != nil {
			return domain.ErrPostNotFound
		}
		doc.PostID = &postOID
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByTarget(ctx context.Context, userID string, limit int) ([]*domain.Activity, error) {
	targetOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"target_user_id": targetOID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer cursor.Close(ctx)

	var activities []*domain.Activity
	for cursor.Next(ctx) {
		var doc activityDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode activity: %w", err)
		}
		a := &domain.Activity{
			ID:           doc.ID.Hex(),
			Type:         domain.ActivityType(doc.Type),
			ActorID:      doc.ActorID.Hex(),
			TargetUserID: doc.TargetUserID.Hex(),
			CreatedAt:    doc.CreatedAt,
		}
		if doc.PostID != nil {
			a.PostID = doc.PostID.Hex()
		}
		activities = append(activities, a)
	}
	return activities, cursor.Err()
}

// EnsureIndexes creates the index backing the per-user notification listing.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "target_user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}
