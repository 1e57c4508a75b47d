package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/citygram/citygram-api/internal/core/domain"
	"github.com/citygram/citygram-api/internal/core/ports"
)

const collectionPosts = "posts"

// PostRepository implements ports.PostRepository on MongoDB. Likes are kept
// with set semantics through $addToSet/$pull, which makes the like toggle
// safe under rapid repeats.
type PostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{coll: db.Collection(collectionPosts)}
}

type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	AuthorID  primitive.ObjectID `bson:"author_id"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"created_at"`
}

type postDoc struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	AuthorID  primitive.ObjectID   `bson:"author_id"`
	Caption   string               `bson:"caption"`
	Image     string               `bson:"image"`
	City      string               `bson:"city"`
	Likes     []primitive.ObjectID `bson:"likes"`
	Comments  []commentDoc         `bson:"comments"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

func (d *postDoc) toDomain() *domain.Post {
	comments := make([]domain.Comment, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, domain.Comment{
			ID:        c.ID.Hex(),
			AuthorID:  c.AuthorID.Hex(),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return &domain.Post{
		ID:        d.ID.Hex(),
		AuthorID:  d.AuthorID.Hex(),
		Caption:   d.Caption,
		Image:     d.Image,
		City:      d.City,
		Likes:     hexIDs(d.Likes),
		Comments:  comments,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	authorOID, err := primitive.ObjectIDFromHex(post.AuthorID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := postDoc{
		AuthorID:  authorOID,
		Caption:   post.Caption,
		Image:     post.Image,
		City:      post.City,
		Likes:     []primitive.ObjectID{},
		Comments:  []commentDoc{},
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	created := *post
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	var doc postDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// SetLike adds or removes actorID from the like set and returns the new
// count read from the updated document.
func (r *PostRepository) SetLike(ctx context.Context, postID, actorID string, like bool) (int, error) {
	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return 0, domain.ErrPostNotFound
	}
	actorOID, err := primitive.ObjectIDFromHex(actorID)
	if err != nil {
		return 0, domain.ErrUserNotFound
	}

	op := "$pull"
	if like {
		op = "$addToSet"
	}
	update := bson.M{
		op:     bson.M{"likes": actorOID},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": postOID}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrPostNotFound
		}
		return 0, fmt.Errorf("update likes: %w", err)
	}
	return len(doc.Likes), nil
}

// AppendComment pushes the comment and returns the full updated list.
func (r *PostRepository) AppendComment(ctx context.Context, postID string, comment domain.Comment) ([]domain.Comment, error) {
	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	authorOID, err := primitive.ObjectIDFromHex(comment.AuthorID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	update := bson.M{
		"$push": bson.M{"comments": commentDoc{
			ID:        primitive.NewObjectID(),
			AuthorID:  authorOID,
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
		}},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": postOID}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("append comment: %w", err)
	}
	return doc.toDomain().Comments, nil
}

// ListAll returns every post newest-first.
func (r *PostRepository) ListAll(ctx context.Context) ([]*domain.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cursor.Close(ctx)
	return decodePosts(ctx, cursor)
}

// Feed selects posts authored by followed users or stamped with the viewer's
// city, newest-first, with offset pagination.
func (r *PostRepository) Feed(ctx context.Context, filter ports.FeedFilter) ([]*domain.Post, int64, error) {
	followed := make([]primitive.ObjectID, 0, len(filter.FollowingIDs))
	for _, id := range filter.FollowingIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		followed = append(followed, oid)
	}

	query := bson.M{"$or": bson.A{
		bson.M{"author_id": bson.M{"$in": followed}},
		bson.M{"city": filter.City},
	}}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count feed: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("query feed: %w", err)
	}
	defer cursor.Close(ctx)

	posts, err := decodePosts(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func decodePosts(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Post, error) {
	var posts []*domain.Post
	for cursor.Next(ctx) {
		var doc postDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, doc.toDomain())
	}
	return posts, cursor.Err()
}

// EnsureIndexes creates the indexes backing the feed query and author lookups.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
