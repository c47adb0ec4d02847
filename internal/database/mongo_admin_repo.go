package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"promobot/internal/database/models"
)

// MongoAdminRepository implements AdminRepository for MongoDB. Membership is
// set-typed: the unique index on telegram_id rejects duplicate inserts.
type MongoAdminRepository struct {
	collection *mongo.Collection
}

// NewMongoAdminRepository creates a new MongoDB admin repository.
func NewMongoAdminRepository(db *mongo.Database) *MongoAdminRepository {
	return &MongoAdminRepository{
		collection: db.Collection(adminCollection),
	}
}

// Add inserts the admin, returning false if the Telegram id is already registered.
func (r *MongoAdminRepository) Add(ctx context.Context, admin *models.Admin) (bool, error) {
	if admin.AddedAt.IsZero() {
		admin.AddedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert admin %d: %w", admin.TelegramID, err)
	}
	return true, nil
}

// Remove deletes the admin by Telegram id.
func (r *MongoAdminRepository) Remove(ctx context.Context, telegramID int64) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"telegram_id": telegramID})
	if err != nil {
		return false, fmt.Errorf("failed to remove admin %d: %w", telegramID, err)
	}
	return result.DeletedCount > 0, nil
}

// List returns all admins ordered by the time they were added.
func (r *MongoAdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer cursor.Close(ctx)

	var admins []models.Admin
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, fmt.Errorf("failed to decode admins: %w", err)
	}
	return admins, nil
}

// IsAdmin reports whether the Telegram id is in the admin set.
func (r *MongoAdminRepository) IsAdmin(ctx context.Context, telegramID int64) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"telegram_id": telegramID})
	if err != nil {
		return false, fmt.Errorf("failed to check admin %d: %w", telegramID, err)
	}
	return count > 0, nil
}
