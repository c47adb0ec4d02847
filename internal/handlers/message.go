package handlers

import (
	"context"
	"strings"

	"github.com/mymmrac/telego"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"promobot/internal/database"
	"promobot/internal/database/models"
	"promobot/internal/leads"
	"promobot/internal/sessions"
)

// HandleMessage is the entry point for every inbound message. Commands go
// through the command table with its authorization guards; other messages
// either continue an admin's multi-step flow or become a lead.
func (h *MessageHandler) HandleMessage(ctx context.Context, message telego.Message) error {
	if message.From == nil {
		return nil // channel posts and the like carry no actor
	}

	if strings.HasPrefix(message.Text, "/") {
		return h.handleCommand(ctx, message)
	}

	authorized, err := h.authChecker.IsAuthorized(ctx, message.From.ID)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, h.localizerFor(message.From), err)
	}

	if authorized {
		session := h.sessions.Get(message.From.ID)
		if session.State != sessions.StateIdle && session.State != sessions.StateLeadSource {
			return h.handleFlowMessage(ctx, message, session)
		}
		return nil // admin chatter outside a flow is not lead material
	}

	if message.Chat.Type != telego.ChatTypePrivate {
		return nil
	}
	return h.handleLeadMessage(ctx, message)
}

// handleCommand parses "/cmd args", applies the command's authorization guard
// and dispatches to its handler.
func (h *MessageHandler) handleCommand(ctx context.Context, message telego.Message) error {
	localizer := h.localizerFor(message.From)

	name, args := splitCommand(message.Text)
	for _, cmd := range h.commands {
		if cmd.Command != name {
			continue
		}

		if cmd.OwnerOnly {
			if ok, err := h.requireOwner(ctx, message, localizer); !ok {
				return err
			}
		} else if cmd.AdminOnly {
			if ok, err := h.requireAdmin(ctx, message, localizer); !ok {
				return err
			}
		}
		return cmd.Handler(ctx, message, args)
	}

	if message.Chat.Type == telego.ChatTypePrivate {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgErrorUnknownCommand", nil)
	}
	return nil
}

// handleFlowMessage continues a multi-step admin flow.
func (h *MessageHandler) handleFlowMessage(ctx context.Context, message telego.Message, session sessions.Session) error {
	localizer := h.localizerFor(message.From)
	h.sessions.Clear(message.From.ID)

	switch session.State {
	case sessions.StateAwaitingContent:
		return h.saveContent(ctx, message)

	case sessions.StateAwaitingScheduleTime:
		return h.addScheduleTime(ctx, message.Chat.ID, message.From, message.Text)

	case sessions.StateAwaitingBindContent:
		return h.bindContent(ctx, message, session.Data)

	case sessions.StateAwaitingTargetChat, sessions.StateAwaitingAdminChat:
		return h.setChatSetting(ctx, message.Chat.ID, message.From, message.Text, session.State)

	case sessions.StateAwaitingBanner:
		if len(message.Photo) == 0 {
			return h.reply(ctx, message.Chat.ID, localizer, "MsgBannerPrompt", nil)
		}
		fileID := message.Photo[len(message.Photo)-1].FileID
		if err := h.settings.SetBannerFileID(ctx, fileID); err != nil {
			return h.replyError(ctx, message.Chat.ID, localizer, err)
		}
		return h.reply(ctx, message.Chat.ID, localizer, "MsgBannerSet", nil)
	}
	return nil
}

// saveContent turns the admin's message into a content item. The biggest
// photo size is kept for photo content; media captions are preserved.
func (h *MessageHandler) saveContent(ctx context.Context, message telego.Message) error {
	localizer := h.localizerFor(message.From)

	content := &models.Content{
		Caption:   message.Caption,
		CreatedBy: message.From.ID,
	}
	switch {
	case len(message.Photo) > 0:
		content.Type = models.ContentTypePhoto
		content.FileID = message.Photo[len(message.Photo)-1].FileID
	case message.Video != nil:
		content.Type = models.ContentTypeVideo
		content.FileID = message.Video.FileID
	case strings.TrimSpace(message.Text) != "":
		content.Type = models.ContentTypeText
		content.Text = message.Text
	default:
		// Nothing postable in the message; restart the flow.
		h.sessions.Begin(message.From.ID, sessions.StateAwaitingContent, "")
		return h.reply(ctx, message.Chat.ID, localizer, "MsgNewPostPrompt", nil)
	}

	if err := h.contentRepo.Create(ctx, content); err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	return h.reply(ctx, message.Chat.ID, localizer, "MsgContentSaved", map[string]interface{}{"ID": content.ID.Hex()})
}

// bindContent completes the bind flow: the message text is the content id to
// bind to the schedule picked earlier.
func (h *MessageHandler) bindContent(ctx context.Context, message telego.Message, scheduleHex string) error {
	localizer := h.localizerFor(message.From)

	scheduleID, err := primitive.ObjectIDFromHex(scheduleHex)
	if err != nil {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgErrorGeneral", nil)
	}
	schedule, err := h.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		if err == database.ErrScheduleNotFound {
			return h.reply(ctx, message.Chat.ID, localizer, "MsgErrorGeneral", nil)
		}
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}

	contentID, err := primitive.ObjectIDFromHex(strings.TrimSpace(message.Text))
	if err != nil {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgBindBadContent", nil)
	}
	content, err := h.contentRepo.GetByID(ctx, contentID)
	if err != nil {
		if err == database.ErrContentNotFound {
			return h.reply(ctx, message.Chat.ID, localizer, "MsgBindBadContent", nil)
		}
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if content.Status != models.ContentStatusActive {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgBindBadContent", nil)
	}

	if err := h.schedules.BindContent(ctx, scheduleID, contentID); err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	return h.reply(ctx, message.Chat.ID, localizer, "MsgBindDone", map[string]interface{}{
		"ContentID": contentID.Hex(),
		"Time":      schedule.TimeOfDay,
	})
}

// handleLeadMessage submits an inbound customer message as a lead and
// acknowledges the sender. A rate-limited sender is told to slow down and no
// lead is created.
func (h *MessageHandler) handleLeadMessage(ctx context.Context, message telego.Message) error {
	localizer := h.localizerFor(message.From)

	text := message.Text
	phone := ""
	if message.Contact != nil {
		phone = message.Contact.PhoneNumber
	}
	if text == "" {
		text = message.Caption
	}
	if text == "" && phone == "" {
		return nil // nothing capturable (stickers etc.)
	}

	var sourceContentID *primitive.ObjectID
	if session := h.sessions.Get(message.From.ID); session.State == sessions.StateLeadSource {
		if id, err := primitive.ObjectIDFromHex(session.Data); err == nil {
			sourceContentID = &id
		}
		h.sessions.Clear(message.From.ID)
	}

	profile := leads.Profile{
		TelegramID: message.From.ID,
		Username:   message.From.Username,
		FirstName:  message.From.FirstName,
		LastName:   message.From.LastName,
	}

	_, routed, err := h.leadService.Submit(ctx, profile, text, sourceContentID, phone)
	if err != nil {
		if err == leads.ErrRateLimited {
			return h.reply(ctx, message.Chat.ID, localizer, "MsgLeadRateLimited", nil)
		}
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}

	if routed {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgLeadReceived", nil)
	}
	return h.reply(ctx, message.Chat.ID, localizer, "MsgLeadReceivedNoRouting", nil)
}

// splitCommand extracts the command name and argument tail from a "/cmd args"
// message, dropping an optional @botname suffix.
func splitCommand(text string) (name, args string) {
	text = strings.TrimPrefix(text, "/")
	if idx := strings.IndexByte(text, ' '); idx >= 0 {
		name, args = text[:idx], strings.TrimSpace(text[idx+1:])
	} else {
		name = text
	}
	if idx := strings.IndexByte(name, '@'); idx >= 0 {
		name = name[:idx]
	}
	return strings.ToLower(name), args
}
