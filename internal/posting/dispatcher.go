package posting

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"promobot/internal/database"
	"promobot/internal/database/models"
	"promobot/internal/settings"
)

// Dispatcher decides, for each fired schedule, whether and what to publish,
// and records every successful publish in the append-only post log. It is the
// sole writer of post log entries.
type Dispatcher struct {
	settings  *settings.Store
	schedules database.ScheduleRepository
	content   database.ContentRepository
	postLog   database.PostLogRepository
	publisher Publisher
}

// NewDispatcher creates a Dispatcher from its collaborators. All of them are
// required.
func NewDispatcher(
	settingsStore *settings.Store,
	schedules database.ScheduleRepository,
	content database.ContentRepository,
	postLog database.PostLogRepository,
	publisher Publisher,
) (*Dispatcher, error) {
	if settingsStore == nil {
		return nil, fmt.Errorf("settings store cannot be nil")
	}
	if schedules == nil {
		return nil, fmt.Errorf("schedule repository cannot be nil")
	}
	if content == nil {
		return nil, fmt.Errorf("content repository cannot be nil")
	}
	if postLog == nil {
		return nil, fmt.Errorf("post log repository cannot be nil")
	}
	if publisher == nil {
		return nil, fmt.Errorf("publisher cannot be nil")
	}
	return &Dispatcher{
		settings:  settingsStore,
		schedules: schedules,
		content:   content,
		postLog:   postLog,
		publisher: publisher,
	}, nil
}

// OnFire handles a single schedule fire event. Every skip condition is a
// silent no-op or an operational log line; failures are captured and never
// propagated, so one bad fire cannot take down the trigger facility.
func (d *Dispatcher) OnFire(ctx context.Context, scheduleID primitive.ObjectID) {
	logPrefix := fmt.Sprintf("[Dispatch Schedule:%s]", scheduleID.Hex())

	enabled, err := d.settings.PostingEnabled(ctx)
	if err != nil {
		d.reportf(logPrefix, "failed to read posting toggle: %v", err)
		return
	}
	if !enabled {
		return
	}

	targetChatID, ok, err := d.settings.TargetChatID(ctx)
	if err != nil {
		d.reportf(logPrefix, "failed to read target chat: %v", err)
		return
	}
	if !ok {
		log.Printf("%s Target chat not configured, skipping scheduled post", logPrefix)
		return
	}

	contentID, bound, err := d.schedules.BoundContent(ctx, scheduleID)
	if err != nil {
		d.reportf(logPrefix, "failed to resolve binding: %v", err)
		return
	}
	if !bound {
		return
	}

	posted, err := d.publish(ctx, targetChatID, contentID)
	if err != nil {
		d.reportf(logPrefix, "publish failed for content %s: %v", contentID.Hex(), err)
		return
	}
	if posted {
		log.Printf("%s Published content %s to chat %d", logPrefix, contentID.Hex(), targetChatID)
	}
}

// PostNow publishes a specific content item immediately, bypassing the
// schedule binding and the global posting toggle. The target chat must still
// be configured and the content must still be active and publishing-enabled.
// Returns false when any of those preconditions fail or the transport call
// fails.
func (d *Dispatcher) PostNow(ctx context.Context, contentID primitive.ObjectID) (bool, error) {
	logPrefix := fmt.Sprintf("[PostNow Content:%s]", contentID.Hex())

	targetChatID, ok, err := d.settings.TargetChatID(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read target chat: %w", err)
	}
	if !ok {
		log.Printf("%s Target chat not configured", logPrefix)
		return false, nil
	}

	posted, err := d.publish(ctx, targetChatID, contentID)
	if err != nil {
		d.reportf(logPrefix, "publish failed: %v", err)
		return false, nil
	}
	return posted, nil
}

// publish loads and validates the content, dispatches it to the transport and
// appends the post log row. The log row is written only after a successful
// transport call; a failure between send and log write means the publish is
// treated as non-posted on retry.
func (d *Dispatcher) publish(ctx context.Context, targetChatID int64, contentID primitive.ObjectID) (bool, error) {
	content, err := d.content.GetByID(ctx, contentID)
	if err != nil {
		if err == database.ErrContentNotFound {
			return false, nil
		}
		return false, err
	}
	if !content.IsPostable() {
		return false, nil
	}

	linkPayload := content.ID.Hex()

	var messageID int
	switch content.Type {
	case models.ContentTypePhoto:
		messageID, err = d.publisher.SendPhoto(ctx, targetChatID, content.FileID, content.Caption, linkPayload)
	case models.ContentTypeVideo:
		messageID, err = d.publisher.SendVideo(ctx, targetChatID, content.FileID, content.Caption, linkPayload)
	case models.ContentTypeText:
		text := strings.TrimSpace(content.Text)
		if text == "" {
			text = strings.TrimSpace(content.Caption)
		}
		if text == "" {
			return false, nil
		}
		messageID, err = d.publisher.SendText(ctx, targetChatID, text, linkPayload)
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}

	entry := &models.PostLog{
		ContentID: content.ID,
		ChatID:    targetChatID,
		MessageID: messageID,
		PostedAt:  time.Now(),
	}
	if err := d.postLog.Append(ctx, entry); err != nil {
		// The message went out but the audit row did not; surface the storage
		// failure so the caller sees the publish as failed and operators can
		// reconcile from the channel itself.
		return false, err
	}
	return true, nil
}

// reportf logs an operational failure and forwards it to sentry.
func (d *Dispatcher) reportf(logPrefix, format string, args ...interface{}) {
	err := fmt.Errorf(logPrefix+" "+format, args...)
	log.Print(err)
	sentry.CaptureException(err)
}
