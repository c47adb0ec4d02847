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

// MongoScheduleRepository implements ScheduleRepository for MongoDB.
type MongoScheduleRepository struct {
	collection *mongo.Collection
	bindings   *mongo.Collection
}

// NewMongoScheduleRepository creates a new MongoDB schedule repository.
func NewMongoScheduleRepository(db *mongo.Database) *MongoScheduleRepository {
	return &MongoScheduleRepository{
		collection: db.Collection(scheduleCollection),
		bindings:   db.Collection(bindingCollection),
	}
}

// Add inserts a schedule for the normalized time. The unique index on
// time_of_day makes this a conditional insert: a duplicate time surfaces as
// ErrDuplicateScheduleTime, never a second row.
func (r *MongoScheduleRepository) Add(ctx context.Context, timeOfDay string) (*models.Schedule, error) {
	schedule := &models.Schedule{
		ID:        primitive.NewObjectID(),
		TimeOfDay: timeOfDay,
		Enabled:   true,
		CreatedAt: time.Now(),
	}

	if _, err := r.collection.InsertOne(ctx, schedule); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateScheduleTime
		}
		return nil, fmt.Errorf("failed to insert schedule %s: %w", timeOfDay, err)
	}
	return schedule, nil
}

// RemoveByTime deletes the schedule with the given normalized time together
// with its binding.
func (r *MongoScheduleRepository) RemoveByTime(ctx context.Context, timeOfDay string) (bool, error) {
	var schedule models.Schedule
	err := r.collection.FindOneAndDelete(ctx, bson.M{"time_of_day": timeOfDay}).Decode(&schedule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, fmt.Errorf("failed to remove schedule %s: %w", timeOfDay, err)
	}

	if _, err := r.bindings.DeleteOne(ctx, bson.M{"schedule_id": schedule.ID}); err != nil {
		return false, fmt.Errorf("failed to remove binding for schedule %s: %w", schedule.ID.Hex(), err)
	}
	return true, nil
}

// List returns all schedules ordered by time of day ascending. The normalized
// zero-padded form makes the lexicographic sort a chronological one.
func (r *MongoScheduleRepository) List(ctx context.Context) ([]models.Schedule, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "time_of_day", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.Schedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode schedules: %w", err)
	}
	return schedules, nil
}

// GetByID returns the schedule or ErrScheduleNotFound.
func (r *MongoScheduleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&schedule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to find schedule %s: %w", id.Hex(), err)
	}
	return &schedule, nil
}

// SetEnabled toggles a schedule by its normalized time.
func (r *MongoScheduleRepository) SetEnabled(ctx context.Context, timeOfDay string, enabled bool) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"time_of_day": timeOfDay},
		bson.M{"$set": bson.M{"enabled": enabled}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to set enabled for schedule %s: %w", timeOfDay, err)
	}
	return result.MatchedCount > 0, nil
}

// BindContent upserts the binding for a schedule. The binding is keyed by
// schedule, so a new content silently replaces the previous one; only the
// post log keeps history.
func (r *MongoScheduleRepository) BindContent(ctx context.Context, scheduleID, contentID primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			"content_id": contentID,
			"bound_at":   time.Now(),
		},
		"$setOnInsert": bson.M{
			"schedule_id": scheduleID,
		},
	}

	_, err := r.bindings.UpdateOne(ctx,
		bson.M{"schedule_id": scheduleID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to bind content %s to schedule %s: %w", contentID.Hex(), scheduleID.Hex(), err)
	}
	return nil
}

// Unbind removes the binding for a schedule.
func (r *MongoScheduleRepository) Unbind(ctx context.Context, scheduleID primitive.ObjectID) (bool, error) {
	result, err := r.bindings.DeleteOne(ctx, bson.M{"schedule_id": scheduleID})
	if err != nil {
		return false, fmt.Errorf("failed to unbind schedule %s: %w", scheduleID.Hex(), err)
	}
	return result.DeletedCount > 0, nil
}

// BoundContent returns the content id bound to a schedule, if any.
func (r *MongoScheduleRepository) BoundContent(ctx context.Context, scheduleID primitive.ObjectID) (primitive.ObjectID, bool, error) {
	var binding models.ScheduleBinding
	err := r.bindings.FindOne(ctx, bson.M{"schedule_id": scheduleID}).Decode(&binding)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return primitive.NilObjectID, false, nil
		}
		return primitive.NilObjectID, false, fmt.Errorf("failed to find binding for schedule %s: %w", scheduleID.Hex(), err)
	}
	return binding.ContentID, true, nil
}

// BoundSchedules returns the ids of all schedules the content is bound to.
func (r *MongoScheduleRepository) BoundSchedules(ctx context.Context, contentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.bindings.Find(ctx, bson.M{"content_id": contentID})
	if err != nil {
		return nil, fmt.Errorf("failed to find bindings for content %s: %w", contentID.Hex(), err)
	}
	defer cursor.Close(ctx)

	var bindings []models.ScheduleBinding
	if err := cursor.All(ctx, &bindings); err != nil {
		return nil, fmt.Errorf("failed to decode bindings: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(bindings))
	for _, b := range bindings {
		ids = append(ids, b.ScheduleID)
	}
	return ids, nil
}
