package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostLog is an append-only record of a single successful publish to the
// target chat. Rows are never mutated or deleted; the maximum PostedAt per
// content answers "when was this last published".
type PostLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ContentID primitive.ObjectID `bson:"content_id"`
	ChatID    int64              `bson:"chat_id"`
	MessageID int                `bson:"message_id"`
	PostedAt  time.Time          `bson:"posted_at"`
}
