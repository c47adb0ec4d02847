package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"promobot/internal/database/models"
)

// MongoContentRepository implements ContentRepository for MongoDB. It also
// holds the binding collection so soft deletes can cascade binding removal.
type MongoContentRepository struct {
	collection *mongo.Collection
	bindings   *mongo.Collection
	postLogs   *mongo.Collection
}

// NewMongoContentRepository creates a new MongoDB content repository.
func NewMongoContentRepository(db *mongo.Database) *MongoContentRepository {
	return &MongoContentRepository{
		collection: db.Collection(contentCollection),
		bindings:   db.Collection(bindingCollection),
		postLogs:   db.Collection(postLogCollection),
	}
}

// Create inserts a new active, publishing-enabled content row. Other content
// rows are left untouched: items are scheduled independently.
func (r *MongoContentRepository) Create(ctx context.Context, content *models.Content) error {
	content.ID = primitive.NewObjectID()
	content.Status = models.ContentStatusActive
	content.PublishingEnabled = true
	content.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, content); err != nil {
		return fmt.Errorf("failed to insert content: %w", err)
	}
	return nil
}

// GetByID retrieves a content item by id, returning ErrContentNotFound when absent.
func (r *MongoContentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Content, error) {
	var content models.Content
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&content)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to find content %s: %w", id.Hex(), err)
	}
	return &content, nil
}

// ListHistory returns content ordered by creation descending, deleted included.
func (r *MongoContentRepository) ListHistory(ctx context.Context, limit int) ([]models.Content, error) {
	return r.list(ctx, bson.M{}, limit)
}

// ListActive returns active content ordered by creation descending.
func (r *MongoContentRepository) ListActive(ctx context.Context, limit int) ([]models.Content, error) {
	return r.list(ctx, bson.M{"status": models.ContentStatusActive}, limit)
}

func (r *MongoContentRepository) list(ctx context.Context, filter bson.M, limit int) ([]models.Content, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.Content
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode content list: %w", err)
	}
	return items, nil
}

// SoftDelete marks a content item deleted and removes any schedule bindings
// referencing it. The row itself is kept for history and possible restore.
func (r *MongoContentRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ContentStatusActive},
		bson.M{"$set": bson.M{"status": models.ContentStatusDeleted}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to soft-delete content %s: %w", id.Hex(), err)
	}
	if result.ModifiedCount == 0 {
		return false, nil
	}

	// Cascade: a deleted item must not stay scheduled.
	if _, err := r.bindings.DeleteMany(ctx, bson.M{"content_id": id}); err != nil {
		return false, fmt.Errorf("failed to remove bindings for content %s: %w", id.Hex(), err)
	}
	return true, nil
}

// Reactivate restores a soft-deleted item. Bindings are not restored; the
// admin re-binds the item to a schedule explicitly.
func (r *MongoContentRepository) Reactivate(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ContentStatusDeleted},
		bson.M{"$set": bson.M{"status": models.ContentStatusActive}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to reactivate content %s: %w", id.Hex(), err)
	}
	return result.ModifiedCount > 0, nil
}

// SetPublishingEnabled toggles dispatch eligibility for a content item.
func (r *MongoContentRepository) SetPublishingEnabled(ctx context.Context, id primitive.ObjectID, enabled bool) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"publishing_enabled": enabled}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to set publishing_enabled for content %s: %w", id.Hex(), err)
	}
	return result.MatchedCount > 0, nil
}

// LastPublishedAt aggregates the post log for the newest publish time per
// content id. Ids that were never published are absent from the result.
func (r *MongoContentRepository) LastPublishedAt(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]time.Time, error) {
	result := make(map[primitive.ObjectID]time.Time, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"content_id": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$content_id",
			"last_posted": bson.M{"$max": "$posted_at"},
		}}},
	}

	cursor, err := r.postLogs.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate last published times: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ContentID  primitive.ObjectID `bson:"_id"`
		LastPosted time.Time          `bson:"last_posted"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode last published times: %w", err)
	}
	for _, row := range rows {
		result[row.ContentID] = row.LastPosted
	}
	return result, nil
}
