package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"promobot/internal/database/models"
)

// Sentinel errors for expected repository conditions. Callers branch on these;
// anything else is a storage failure to be propagated and reported.
var (
	// ErrContentNotFound is returned when a referenced content item does not exist.
	ErrContentNotFound = errors.New("content not found")
	// ErrScheduleNotFound is returned when a referenced schedule does not exist.
	ErrScheduleNotFound = errors.New("schedule not found")
	// ErrLeadNotFound is returned when a referenced lead does not exist.
	ErrLeadNotFound = errors.New("lead not found")
	// ErrDuplicateScheduleTime is returned when adding a schedule whose
	// normalized time already exists.
	ErrDuplicateScheduleTime = errors.New("schedule time already exists")
)

// ContentRepository manages the lifecycle of postable content items.
type ContentRepository interface {
	// Create inserts a new active, publishing-enabled content row. It fills
	// ID and CreatedAt. Existing content is left untouched: items are
	// independent and never auto-deactivated by creating another.
	Create(ctx context.Context, content *models.Content) error
	// GetByID returns the content item or ErrContentNotFound.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Content, error)
	// ListHistory returns content ordered by creation descending, including
	// soft-deleted items.
	ListHistory(ctx context.Context, limit int) ([]models.Content, error)
	// ListActive returns active content ordered by creation descending.
	ListActive(ctx context.Context, limit int) ([]models.Content, error)
	// SoftDelete marks the content deleted and removes any schedule bindings
	// that reference it. Returns false if the id is unknown or the content is
	// already deleted.
	SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error)
	// Reactivate restores a soft-deleted item. Returns false if the id is
	// unknown or the content is already active.
	Reactivate(ctx context.Context, id primitive.ObjectID) (bool, error)
	// SetPublishingEnabled toggles dispatch eligibility without touching the
	// lifecycle status. Returns false if the id is unknown.
	SetPublishingEnabled(ctx context.Context, id primitive.ObjectID, enabled bool) (bool, error)
	// LastPublishedAt returns the most recent publish time per content id,
	// computed over the post log. Never-published ids are absent from the map.
	LastPublishedAt(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]time.Time, error)
}

// ScheduleRepository manages daily posting slots and their content bindings.
type ScheduleRepository interface {
	// Add inserts a schedule for the given normalized "HH:MM" time. Returns
	// ErrDuplicateScheduleTime if a schedule with that time already exists.
	Add(ctx context.Context, timeOfDay string) (*models.Schedule, error)
	// RemoveByTime deletes the schedule with the given normalized time and its
	// binding. Returns false if no such schedule exists.
	RemoveByTime(ctx context.Context, timeOfDay string) (bool, error)
	// List returns all schedules ordered by time of day ascending.
	List(ctx context.Context) ([]models.Schedule, error)
	// GetByID returns the schedule or ErrScheduleNotFound.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Schedule, error)
	// SetEnabled toggles a schedule by its normalized time. Returns false if
	// no such schedule exists.
	SetEnabled(ctx context.Context, timeOfDay string, enabled bool) (bool, error)
	// BindContent assigns content to a schedule, replacing any previous
	// binding for that schedule (last write wins).
	BindContent(ctx context.Context, scheduleID, contentID primitive.ObjectID) error
	// Unbind removes the binding for a schedule. Returns false if the
	// schedule had no binding.
	Unbind(ctx context.Context, scheduleID primitive.ObjectID) (bool, error)
	// BoundContent returns the content id bound to the schedule, with ok=false
	// when the schedule has no binding.
	BoundContent(ctx context.Context, scheduleID primitive.ObjectID) (primitive.ObjectID, bool, error)
	// BoundSchedules returns the ids of all schedules the content is bound to.
	BoundSchedules(ctx context.Context, contentID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// LeadRepository persists leads and performs the assignment transitions.
type LeadRepository interface {
	// Create inserts a new pending, unanswered lead, filling ID and CreatedAt.
	Create(ctx context.Context, lead *models.Lead) error
	// GetByID returns the lead or ErrLeadNotFound.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error)
	// Take atomically transitions a pending lead to taken by the given admin.
	// Exactly one concurrent caller observes true; everyone else gets false.
	Take(ctx context.Context, id primitive.ObjectID, byTelegramID int64) (bool, error)
	// MarkAnswered sets the answered flag and timestamp, backfills TakenBy if
	// it was unset and promotes a still-pending lead to taken. Returns false
	// only if the lead does not exist.
	MarkAnswered(ctx context.Context, id primitive.ObjectID, byTelegramID int64) (bool, error)
	// CountSince counts leads created by the Telegram user at or after the
	// given instant; used by the intake rate limiter.
	CountSince(ctx context.Context, telegramUserID int64, since time.Time) (int64, error)
	// ListUnanswered returns unanswered leads ordered by creation descending.
	ListUnanswered(ctx context.Context, limit int) ([]models.Lead, error)
	// ListRecent returns the most recent leads ordered by creation descending.
	ListRecent(ctx context.Context, limit int) ([]models.Lead, error)
}

// PostLogRepository appends to and queries the append-only publish audit log.
type PostLogRepository interface {
	// Append records one successful publish. Entries are never updated.
	Append(ctx context.Context, entry *models.PostLog) error
	// CountForContent returns the number of publishes recorded for a content item.
	CountForContent(ctx context.Context, contentID primitive.ObjectID) (int64, error)
}

// SettingsRepository is the raw key/value settings store. Typed accessors with
// defaults live in the settings package.
type SettingsRepository interface {
	// Get returns the stored value for key, or "" if the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// Set upserts the value for key.
	Set(ctx context.Context, key, value string) error
}

// AdminRepository is the persisted admin set consulted by the authorization
// predicate.
type AdminRepository interface {
	// Add inserts the admin. Returns false if the Telegram id is already registered.
	Add(ctx context.Context, admin *models.Admin) (bool, error)
	// Remove deletes the admin by Telegram id. Returns false if not registered.
	Remove(ctx context.Context, telegramID int64) (bool, error)
	// List returns all admins ordered by the time they were added.
	List(ctx context.Context) ([]models.Admin, error)
	// IsAdmin reports set membership for the Telegram id.
	IsAdmin(ctx context.Context, telegramID int64) (bool, error)
}

// UserRepository registers and looks up Telegram users who contact the bot.
type UserRepository interface {
	// GetOrCreate returns the existing user for the Telegram id or inserts a
	// new one with the given profile fields.
	GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*models.User, error)
	// GetByTelegramID returns the user or nil if unknown.
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
}
