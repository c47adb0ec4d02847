package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentType enumerates the kinds of postable content.
type ContentType string

const (
	ContentTypePhoto ContentType = "photo"
	ContentTypeVideo ContentType = "video"
	ContentTypeText  ContentType = "text"
)

// ContentStatus enumerates content lifecycle states. Content is never hard-deleted;
// a deleted row keeps its history and can be restored.
type ContentStatus string

const (
	ContentStatusActive  ContentStatus = "active"
	ContentStatusDeleted ContentStatus = "deleted"
)

// Content represents a single postable unit (photo, video or text) stored for
// scheduled publishing to the target chat.
type Content struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Type              ContentType        `bson:"content_type"`
	FileID            string             `bson:"file_id,omitempty"` // Telegram file_id for photo/video
	Text              string             `bson:"text,omitempty"`
	Caption           string             `bson:"caption,omitempty"`
	Status            ContentStatus      `bson:"status"`
	PublishingEnabled bool               `bson:"publishing_enabled"`
	CreatedAt         time.Time          `bson:"created_at"`
	CreatedBy         int64              `bson:"created_by"` // Telegram user ID of the creating admin
}

// IsPostable reports whether the content is eligible for dispatch: it must be
// active, publishing-enabled, and carry the payload its type requires
// (file_id for photo/video, text or caption fallback for text).
func (c *Content) IsPostable() bool {
	if c.Status != ContentStatusActive || !c.PublishingEnabled {
		return false
	}
	switch c.Type {
	case ContentTypePhoto, ContentTypeVideo:
		return c.FileID != ""
	case ContentTypeText:
		return c.Text != "" || c.Caption != ""
	}
	return false
}
