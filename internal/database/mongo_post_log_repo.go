package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"promobot/internal/database/models"
)

// MongoPostLogRepository implements PostLogRepository for MongoDB. The
// collection is append-only: entries are inserted once and never touched again.
type MongoPostLogRepository struct {
	collection *mongo.Collection
}

// NewMongoPostLogRepository creates a new MongoDB post log repository.
func NewMongoPostLogRepository(db *mongo.Database) *MongoPostLogRepository {
	return &MongoPostLogRepository{
		collection: db.Collection(postLogCollection),
	}
}

// Append records one successful publish.
func (r *MongoPostLogRepository) Append(ctx context.Context, entry *models.PostLog) error {
	entry.ID = primitive.NewObjectID()
	if entry.PostedAt.IsZero() {
		entry.PostedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert post log for content %s: %w", entry.ContentID.Hex(), err)
	}
	return nil
}

// CountForContent returns the number of recorded publishes for a content item.
func (r *MongoPostLogRepository) CountForContent(ctx context.Context, contentID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"content_id": contentID})
	if err != nil {
		return 0, fmt.Errorf("failed to count post logs for content %s: %w", contentID.Hex(), err)
	}
	return count, nil
}
