package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/andreazevedo1975/OldKut-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	GetFeedPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	GetPostsByAuthorID(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	posts    *mongo.Collection
	counters *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		posts:    db.Collection("posts"),
		counters: db.Collection("counters"),
	}
}

// nextPostID allocates the next integer post ID from the counters collection.
// FindOneAndUpdate with $inc is atomic, so IDs stay unique and monotonic.
func (r *MongoPostRepository) nextPostID(ctx context.Context) (uint, error) {
	var counter struct {
		Seq uint `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "post_id"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate post id: %w", err)
	}
	return counter.Seq, nil
}

// CreatePost creates a new post in MongoDB with a server-assigned ID
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	id, err := r.nextPostID(ctx)
	if err != nil {
		return err
	}
	post.ID = id
	post.CreatedAt = time.Now()
	_, err = r.posts.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("post %d not found", id)
		}
		return nil, err
	}
	return &post, nil
}

// GetFeedPosts retrieves posts newest-first with offset pagination
func (r *MongoPostRepository) GetFeedPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.posts.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostsByAuthorID retrieves posts by a specific author newest-first
func (r *MongoPostRepository) GetPostsByAuthorID(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.posts.Find(ctx, bson.M{"author_id": authorID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
