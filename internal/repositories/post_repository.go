package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/proconnect-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPostNotFound is returned when a post lookup matches nothing
var ErrPostNotFound = fmt.Errorf("post not found")

// ErrInvalidPostID is returned when an ID is not a valid document hex ID
var ErrInvalidPostID = fmt.Errorf("invalid post ID format")

// PostSearchParams narrows a post search; zero-value fields are ignored
type PostSearchParams struct {
	Query   string
	Hashtag string
}

// PostRepository defines the interface for post document operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetFeed(ctx context.Context, userID uint, connectionIDs []uint, skip, limit int64) ([]models.Post, int64, error)
	GetPostsByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, int64, error)
	SearchPosts(ctx context.Context, params PostSearchParams, skip, limit int64) ([]models.Post, int64, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost inserts a new post document
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	post.RefreshDerived()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by its hex ID
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidPostID
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetFeed retrieves the requester's feed: public posts, their own posts, and
// connection-authored posts visible to connections, newest first.
func (r *MongoPostRepository) GetFeed(ctx context.Context, userID uint, connectionIDs []uint, skip, limit int64) ([]models.Post, int64, error) {
	filter := bson.M{"$or": []bson.M{
		{"visibility": models.VisibilityPublic},
		{"author_id": userID},
		{
			"author_id":  bson.M{"$in": connectionIDs},
			"visibility": bson.M{"$in": []string{models.VisibilityPublic, models.VisibilityConnections}},
		},
	}}
	return r.findPage(ctx, filter, skip, limit)
}

// GetPostsByAuthor retrieves a user's public posts, newest first
func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, int64, error) {
	filter := bson.M{"author_id": authorID, "visibility": models.VisibilityPublic}
	return r.findPage(ctx, filter, skip, limit)
}

// SearchPosts searches public posts by content substring and/or folded hashtag
func (r *MongoPostRepository) SearchPosts(ctx context.Context, params PostSearchParams, skip, limit int64) ([]models.Post, int64, error) {
	filter := bson.M{"visibility": models.VisibilityPublic}
	if params.Query != "" {
		filter["content"] = bson.M{"$regex": params.Query, "$options": "i"}
	}
	if params.Hashtag != "" {
		filter["hashtags"] = params.Hashtag
	}
	return r.findPage(ctx, filter, skip, limit)
}

func (r *MongoPostRepository) findPage(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Post, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	posts := make([]models.Post, 0)
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// UpdatePost persists content, derived fields, visibility, media, location and
// edit history of an existing post.
func (r *MongoPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"content":      post.Content,
			"media":        post.Media,
			"hashtags":     post.Hashtags,
			"mentions":     post.Mentions,
			"location":     post.Location,
			"visibility":   post.Visibility,
			"is_edited":    post.IsEdited,
			"edit_history": post.EditHistory,
			"updated_at":   post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// DeletePost removes a post document by its hex ID
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidPostID
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}
