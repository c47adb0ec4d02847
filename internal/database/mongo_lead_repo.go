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

// MongoLeadRepository implements LeadRepository for MongoDB.
type MongoLeadRepository struct {
	collection *mongo.Collection
}

// NewMongoLeadRepository creates a new MongoDB lead repository.
func NewMongoLeadRepository(db *mongo.Database) *MongoLeadRepository {
	return &MongoLeadRepository{
		collection: db.Collection(leadCollection),
	}
}

// Create inserts a new pending, unanswered lead.
func (r *MongoLeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	lead.ID = primitive.NewObjectID()
	lead.Status = models.LeadStatusPending
	lead.Answered = false
	lead.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, lead); err != nil {
		return fmt.Errorf("failed to insert lead from user %d: %w", lead.TelegramUserID, err)
	}
	return nil
}

// GetByID retrieves a lead by id, returning ErrLeadNotFound when absent.
func (r *MongoLeadRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error) {
	var lead models.Lead
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to find lead %s: %w", id.Hex(), err)
	}
	return &lead, nil
}

// Take claims a lead for an admin. The status guard in the filter makes this a
// single compare-and-set: of any number of concurrent callers, exactly the one
// whose update matched the pending document observes true.
func (r *MongoLeadRepository) Take(ctx context.Context, id primitive.ObjectID, byTelegramID int64) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.LeadStatusPending},
		bson.M{"$set": bson.M{
			"status":   models.LeadStatusTaken,
			"taken_by": byTelegramID,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to take lead %s: %w", id.Hex(), err)
	}
	return result.ModifiedCount > 0, nil
}

// MarkAnswered flags a lead answered. Unlike Take this is not exclusive: it
// succeeds for any existing lead, keeps an already-set owner, and promotes a
// still-pending lead to taken by the caller.
func (r *MongoLeadRepository) MarkAnswered(ctx context.Context, id primitive.ObjectID, byTelegramID int64) (bool, error) {
	now := time.Now()

	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"answered":    true,
			"answered_at": now,
			"taken_by":    bson.M{"$ifNull": bson.A{"$taken_by", byTelegramID}},
			"status": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", string(models.LeadStatusPending)}},
				string(models.LeadStatusTaken),
				"$status",
			}},
		}},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	if err != nil {
		return false, fmt.Errorf("failed to mark lead %s answered: %w", id.Hex(), err)
	}
	return result.MatchedCount > 0, nil
}

// CountSince counts leads from a Telegram user created at or after the given
// instant. The intake rate limiter compares this against its ceiling before
// creating a new lead.
func (r *MongoLeadRepository) CountSince(ctx context.Context, telegramUserID int64, since time.Time) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"telegram_user_id": telegramUserID,
		"created_at":       bson.M{"$gte": since},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count leads for user %d: %w", telegramUserID, err)
	}
	return count, nil
}

// ListUnanswered returns unanswered leads, newest first.
func (r *MongoLeadRepository) ListUnanswered(ctx context.Context, limit int) ([]models.Lead, error) {
	return r.list(ctx, bson.M{"answered": false}, limit)
}

// ListRecent returns the most recent leads, newest first.
func (r *MongoLeadRepository) ListRecent(ctx context.Context, limit int) ([]models.Lead, error) {
	return r.list(ctx, bson.M{}, limit)
}

func (r *MongoLeadRepository) list(ctx context.Context, filter bson.M, limit int) ([]models.Lead, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer cursor.Close(ctx)

	var leads []models.Lead
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("failed to decode leads: %w", err)
	}
	return leads, nil
}
