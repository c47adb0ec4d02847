package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a Telegram user who contacted the bot. Created on first inbound
// message and referenced by the leads they produce.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	TelegramID int64              `bson:"telegram_id"`
	Username   string             `bson:"username,omitempty"`
	FirstName  string             `bson:"first_name,omitempty"`
	LastName   string             `bson:"last_name,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
}
