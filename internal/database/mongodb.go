package database

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"promobot/internal/config"
)

// Collection names, mirroring the logical table layout.
const (
	contentCollection  = "content"
	scheduleCollection = "schedules"
	bindingCollection  = "schedule_content_binding"
	postLogCollection  = "posts_log"
	leadCollection     = "leads"
	settingsCollection = "settings"
	adminCollection    = "admins"
	userCollection     = "users"
)

// ConnectDB establishes a connection to MongoDB using the provided configuration.
// It returns the client and database handle, or an error if the connection or
// the initial ping fails.
func ConnectDB(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.MongoDBURI).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to confirm the connection before handing it out.
	var result bson.M
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Decode(&result); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Println("Successfully connected and pinged MongoDB")

	return client, client.Database(cfg.MongoDBDatabase), nil
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// indexes back the conditional-insert semantics (duplicate schedule times,
// duplicate admins) and the one-binding-per-schedule invariant.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{scheduleCollection, mongo.IndexModel{Keys: bson.D{{Key: "time_of_day", Value: 1}}, Options: unique}},
		{bindingCollection, mongo.IndexModel{Keys: bson.D{{Key: "schedule_id", Value: 1}}, Options: unique}},
		{settingsCollection, mongo.IndexModel{Keys: bson.D{{Key: "key", Value: 1}}, Options: unique}},
		{adminCollection, mongo.IndexModel{Keys: bson.D{{Key: "telegram_id", Value: 1}}, Options: unique}},
		{userCollection, mongo.IndexModel{Keys: bson.D{{Key: "telegram_id", Value: 1}}, Options: unique}},
		{contentCollection, mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}}}},
		{leadCollection, mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}}}},
		{leadCollection, mongo.IndexModel{Keys: bson.D{{Key: "telegram_user_id", Value: 1}, {Key: "created_at", Value: -1}}}},
		{postLogCollection, mongo.IndexModel{Keys: bson.D{{Key: "content_id", Value: 1}, {Key: "posted_at", Value: -1}}}},
	}

	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.collection, err)
		}
	}
	return nil
}
