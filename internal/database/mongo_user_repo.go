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

// MongoUserRepository implements UserRepository for MongoDB.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.Collection(userCollection),
	}
}

// GetOrCreate returns the user for the Telegram id, inserting a new row with
// the given profile fields if none exists. The upsert keeps this race-free
// against concurrent messages from the same new user.
func (r *MongoUserRepository) GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*models.User, error) {
	update := bson.M{
		"$set": bson.M{
			"username":   username,
			"first_name": firstName,
			"last_name":  lastName,
		},
		"$setOnInsert": bson.M{
			"telegram_id": telegramID,
			"created_at":  time.Now(),
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"telegram_id": telegramID}, update, opts).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user %d: %w", telegramID, err)
	}
	return &user, nil
}

// GetByTelegramID returns the user or nil if unknown.
func (r *MongoUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"telegram_id": telegramID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user %d: %w", telegramID, err)
	}
	return &user, nil
}
