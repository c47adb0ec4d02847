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

// MongoSettingsRepository implements SettingsRepository for MongoDB.
type MongoSettingsRepository struct {
	collection *mongo.Collection
}

// NewMongoSettingsRepository creates a new MongoDB settings repository.
func NewMongoSettingsRepository(db *mongo.Database) *MongoSettingsRepository {
	return &MongoSettingsRepository{
		collection: db.Collection(settingsCollection),
	}
}

// Get returns the stored value for key, or "" when the key is absent. Defaults
// for absent keys are applied by the typed settings store, not here.
func (r *MongoSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&setting)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil
		}
		return "", fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return setting.Value, nil
}

// Set upserts the value for key.
func (r *MongoSettingsRepository) Set(ctx context.Context, key, value string) error {
	update := bson.M{
		"$set": bson.M{
			"value":      value,
			"updated_at": time.Now(),
		},
		"$setOnInsert": bson.M{
			"key": key,
		},
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"key": key},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}
