package models

import "time"

// Admin is a persisted admin identity added by the owner. Owner identities are
// configuration-level and never stored here; both satisfy the same
// authorization predicate.
type Admin struct {
	TelegramID int64     `bson:"telegram_id"`
	Username   string    `bson:"username,omitempty"`
	FirstName  string    `bson:"first_name,omitempty"`
	LastName   string    `bson:"last_name,omitempty"`
	AddedAt    time.Time `bson:"added_at"`
}
