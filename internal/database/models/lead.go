package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeadStatus enumerates the ownership states of a lead.
type LeadStatus string

const (
	LeadStatusPending LeadStatus = "pending"
	LeadStatusTaken   LeadStatus = "taken"
)

// Lead is a customer-initiated message captured for admin follow-up.
// It is created pending and transitions to taken exactly once; the answered
// flag is independent of ownership and never reverts the status.
type Lead struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty"`
	UserID          primitive.ObjectID  `bson:"user_id"`
	TelegramUserID  int64               `bson:"telegram_user_id"`
	MessageText     string              `bson:"message_text"`
	SourceContentID *primitive.ObjectID `bson:"source_content_id,omitempty"` // which post the user came from, if known
	Status          LeadStatus          `bson:"status"`
	TakenBy         *int64              `bson:"taken_by,omitempty"` // Telegram ID of the owning admin
	Answered        bool                `bson:"answered"`
	AnsweredAt      *time.Time          `bson:"answered_at,omitempty"`
	Phone           string              `bson:"phone,omitempty"`
	CreatedAt       time.Time           `bson:"created_at"`
}
