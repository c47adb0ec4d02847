package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"promobot/internal/database"
	"promobot/internal/database/models"
	"promobot/internal/locales"
	"promobot/internal/sessions"
)

// HandleStart greets the user. A deep-link payload carrying a content id marks
// the user's next message for lead attribution to that post.
func (h *MessageHandler) HandleStart(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	greetingID := "MsgStart"
	if payload := strings.TrimSpace(args); payload != "" {
		if contentID, err := primitive.ObjectIDFromHex(payload); err == nil {
			h.sessions.Begin(message.From.ID, sessions.StateLeadSource, contentID.Hex())
			greetingID = "MsgStartFromPost"
		}
	}

	banner, err := h.settings.BannerFileID(ctx)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if banner != "" {
		_, err = h.bot.SendPhoto(ctx, &telego.SendPhotoParams{
			ChatID:  tu.ID(message.Chat.ID),
			Photo:   telego.InputFile{FileID: banner},
			Caption: locales.GetMessage(localizer, greetingID, nil),
		})
		return err
	}
	return h.reply(ctx, message.Chat.ID, localizer, greetingID, nil)
}

// HandleHelp sends role-appropriate help.
func (h *MessageHandler) HandleHelp(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	authorized, err := h.authChecker.IsAuthorized(ctx, message.From.ID)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if authorized {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgHelpAdmin", nil)
	}
	return h.reply(ctx, message.Chat.ID, localizer, "MsgHelpUser", nil)
}

// HandleNewPost starts the save-content flow; the next message from this
// admin becomes the content item.
func (h *MessageHandler) HandleNewPost(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)
	h.sessions.Begin(message.From.ID, sessions.StateAwaitingContent, "")
	return h.reply(ctx, message.Chat.ID, localizer, "MsgNewPostPrompt", nil)
}

// HandleHistory lists content newest first, deleted included, with the last
// publish time per item from the post log.
func (h *MessageHandler) HandleHistory(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	items, err := h.contentRepo.ListHistory(ctx, listLimit)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if len(items) == 0 {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgHistoryEmpty", nil)
	}

	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	lastPosted, err := h.contentRepo.LastPublishedAt(ctx, ids)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}

	never := locales.GetMessage(localizer, "MsgHistoryNeverPosted", nil)

	var b strings.Builder
	b.WriteString(locales.GetMessage(localizer, "MsgHistoryHeader", nil))
	for _, item := range items {
		posted := never
		if at, ok := lastPosted[item.ID]; ok {
			posted = at.Format("2006-01-02 15:04")
		}
		count, err := h.postLog.CountForContent(ctx, item.ID)
		if err != nil {
			return h.replyError(ctx, message.Chat.ID, localizer, err)
		}
		publishing := "on"
		if !item.PublishingEnabled {
			publishing = "off"
		}
		b.WriteString(fmt.Sprintf("\n%s | %s | %s | publishing %s | posts %d | last posted %s",
			item.ID.Hex(), item.Type, item.Status, publishing, count, posted))
	}

	_, err = h.bot.SendMessage(ctx, tu.Message(tu.ID(message.Chat.ID), b.String()))
	return err
}

// HandleDelete soft-deletes a content item by id and unschedules it.
func (h *MessageHandler) HandleDelete(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	contentID, err := primitive.ObjectIDFromHex(strings.TrimSpace(args))
	if err != nil {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgContentNotFound", nil)
	}

	deleted, err := h.contentRepo.SoftDelete(ctx, contentID)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if !deleted {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgContentDeleteFailed", nil)
	}
	return h.reply(ctx, message.Chat.ID, localizer, "MsgContentDeleted", map[string]interface{}{"ID": contentID.Hex()})
}

// HandleRestore reactivates a soft-deleted content item.
func (h *MessageHandler) HandleRestore(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	contentID, err := primitive.ObjectIDFromHex(strings.TrimSpace(args))
	if err != nil {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgContentNotFound", nil)
	}

	restored, err := h.contentRepo.Reactivate(ctx, contentID)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if !restored {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgContentRestoreFailed", nil)
	}
	return h.reply(ctx, message.Chat.ID, localizer, "MsgContentRestored", map[string]interface{}{"ID": contentID.Hex()})
}

// HandleToggle flips the publishing flag for a content item without touching
// its lifecycle status.
func (h *MessageHandler) HandleToggle(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	contentID, err := primitive.ObjectIDFromHex(strings.TrimSpace(args))
	if err != nil {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgContentNotFound", nil)
	}

	content, err := h.contentRepo.GetByID(ctx, contentID)
	if err != nil {
		if err == database.ErrContentNotFound {
			return h.reply(ctx, message.Chat.ID, localizer, "MsgContentNotFound", nil)
		}
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}

	enabled := !content.PublishingEnabled
	if _, err := h.contentRepo.SetPublishingEnabled(ctx, contentID, enabled); err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}

	if !enabled {
		// The bindings stay; the slots just fall silent until re-enabled.
		bound, err := h.schedules.BoundSchedules(ctx, contentID)
		if err != nil {
			return h.replyError(ctx, message.Chat.ID, localizer, err)
		}
		if len(bound) > 0 {
			return h.reply(ctx, message.Chat.ID, localizer, "MsgContentPublishingOffBound",
				map[string]interface{}{"ID": contentID.Hex(), "Count": len(bound)})
		}
		return h.reply(ctx, message.Chat.ID, localizer, "MsgContentPublishingOff", map[string]interface{}{"ID": contentID.Hex()})
	}
	return h.reply(ctx, message.Chat.ID, localizer, "MsgContentPublishingOn", map[string]interface{}{"ID": contentID.Hex()})
}

// HandleTimes lists configured posting times with their bound content.
func (h *MessageHandler) HandleTimes(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	schedules, err := h.schedules.List(ctx)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if len(schedules) == 0 {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgScheduleListEmpty", nil)
	}

	var b strings.Builder
	b.WriteString(locales.GetMessage(localizer, "MsgScheduleListHeader", nil))
	for _, schedule := range schedules {
		line := fmt.Sprintf("\n%s", schedule.TimeOfDay)
		if !schedule.Enabled {
			line += " (disabled)"
		}
		contentID, bound, err := h.schedules.BoundContent(ctx, schedule.ID)
		if err != nil {
			return h.replyError(ctx, message.Chat.ID, localizer, err)
		}
		if bound {
			line += " -> " + contentID.Hex()
		}
		b.WriteString(line)
	}

	_, err = h.bot.SendMessage(ctx, tu.Message(tu.ID(message.Chat.ID), b.String()))
	return err
}

// HandleAddTime adds a posting time. Without an argument it starts a prompt
// flow for the time.
func (h *MessageHandler) HandleAddTime(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	if strings.TrimSpace(args) == "" {
		h.sessions.Begin(message.From.ID, sessions.StateAwaitingScheduleTime, "")
		return h.reply(ctx, message.Chat.ID, localizer, "MsgAddTimePrompt", nil)
	}
	return h.addScheduleTime(ctx, message.Chat.ID, message.From, args)
}

// addScheduleTime validates, persists and registers a posting time. Shared by
// the direct command and the prompt flow.
func (h *MessageHandler) addScheduleTime(ctx context.Context, chatID int64, from *telego.User, raw string) error {
	localizer := h.localizerFor(from)

	normalized, err := models.ParseTimeOfDay(strings.TrimSpace(raw))
	if err != nil {
		return h.reply(ctx, chatID, localizer, "MsgScheduleInvalidTime", nil)
	}

	schedule, err := h.schedules.Add(ctx, normalized)
	if err != nil {
		if err == database.ErrDuplicateScheduleTime {
			return h.reply(ctx, chatID, localizer, "MsgScheduleDuplicate", map[string]interface{}{"Time": normalized})
		}
		return h.replyError(ctx, chatID, localizer, err)
	}

	if err := h.runner.Register(schedule.ID, schedule.TimeOfDay); err != nil {
		return h.replyError(ctx, chatID, localizer, err)
	}
	return h.reply(ctx, chatID, localizer, "MsgScheduleAdded", map[string]interface{}{"Time": normalized})
}

// HandleDelTime removes a posting time and its trigger registration.
func (h *MessageHandler) HandleDelTime(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	normalized, err := models.ParseTimeOfDay(strings.TrimSpace(args))
	if err != nil {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgScheduleInvalidTime", nil)
	}

	// Resolve the id first so the cron entry can be dropped alongside the row.
	schedule, err := h.findScheduleByTime(ctx, normalized)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if schedule == nil {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgScheduleNotFound", map[string]interface{}{"Time": normalized})
	}

	removed, err := h.schedules.RemoveByTime(ctx, normalized)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if !removed {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgScheduleNotFound", map[string]interface{}{"Time": normalized})
	}
	h.runner.Remove(schedule.ID)

	return h.reply(ctx, message.Chat.ID, localizer, "MsgScheduleRemoved", map[string]interface{}{"Time": normalized})
}

// HandleToggleTime enables or disables a posting time without removing it.
// Disabled schedules keep their binding but are dropped from the trigger set.
func (h *MessageHandler) HandleToggleTime(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	fields := strings.Fields(args)
	if len(fields) != 2 {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgToggleTimeUsage", nil)
	}

	normalized, err := models.ParseTimeOfDay(fields[0])
	if err != nil {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgScheduleInvalidTime", nil)
	}

	var enabled bool
	switch strings.ToLower(fields[1]) {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		return h.reply(ctx, message.Chat.ID, localizer, "MsgToggleTimeUsage", nil)
	}

	updated, err := h.schedules.SetEnabled(ctx, normalized, enabled)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if !updated {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgScheduleNotFound", map[string]interface{}{"Time": normalized})
	}

	schedule, err := h.findScheduleByTime(ctx, normalized)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if schedule != nil {
		if enabled {
			if err := h.runner.Register(schedule.ID, schedule.TimeOfDay); err != nil {
				return h.replyError(ctx, message.Chat.ID, localizer, err)
			}
		} else {
			h.runner.Remove(schedule.ID)
		}
	}

	msgID := "MsgScheduleDisabled"
	if enabled {
		msgID = "MsgScheduleEnabled"
	}
	return h.reply(ctx, message.Chat.ID, localizer, msgID, map[string]interface{}{"Time": normalized})
}

// HandleUnbind clears the content binding of a posting time. The schedule
// itself stays and keeps firing as a no-op.
func (h *MessageHandler) HandleUnbind(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	normalized, err := models.ParseTimeOfDay(strings.TrimSpace(args))
	if err != nil {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgScheduleInvalidTime", nil)
	}

	schedule, err := h.findScheduleByTime(ctx, normalized)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if schedule == nil {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgScheduleNotFound", map[string]interface{}{"Time": normalized})
	}

	removed, err := h.schedules.Unbind(ctx, schedule.ID)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if !removed {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgUnbindNone", map[string]interface{}{"Time": normalized})
	}
	return h.reply(ctx, message.Chat.ID, localizer, "MsgUnbindDone", map[string]interface{}{"Time": normalized})
}

// findScheduleByTime resolves a schedule row by its normalized time, or nil
// when no schedule has that time.
func (h *MessageHandler) findScheduleByTime(ctx context.Context, timeOfDay string) (*models.Schedule, error) {
	schedules, err := h.schedules.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range schedules {
		if schedules[i].TimeOfDay == timeOfDay {
			return &schedules[i], nil
		}
	}
	return nil, nil
}

// HandleBind shows the posting times as buttons; picking one starts the
// content-selection flow for that schedule.
func (h *MessageHandler) HandleBind(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	schedules, err := h.schedules.List(ctx)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if len(schedules) == 0 {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgScheduleListEmpty", nil)
	}

	rows := make([][]telego.InlineKeyboardButton, 0, len(schedules))
	for _, schedule := range schedules {
		rows = append(rows, tu.InlineKeyboardRow(telego.InlineKeyboardButton{
			Text:         schedule.TimeOfDay,
			CallbackData: fmt.Sprintf("%s:%s", CallbackBindPick, schedule.ID.Hex()),
		}))
	}

	text := locales.GetMessage(localizer, "MsgBindPickSchedule", nil)
	msg := tu.Message(tu.ID(message.Chat.ID), text)
	msg.ReplyMarkup = tu.InlineKeyboard(rows...)
	_, err = h.bot.SendMessage(ctx, msg)
	return err
}

// HandlePostNow publishes a content item immediately, outside the schedule.
func (h *MessageHandler) HandlePostNow(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	contentID, err := primitive.ObjectIDFromHex(strings.TrimSpace(args))
	if err != nil {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgPostNowPrompt", nil)
	}

	posted, err := h.dispatcher.PostNow(ctx, contentID)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if !posted {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgPostNowFailed", nil)
	}
	return h.reply(ctx, message.Chat.ID, localizer, "MsgPostNowDone", nil)
}

// HandlePosting flips or reports the global posting toggle.
func (h *MessageHandler) HandlePosting(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	switch strings.ToLower(strings.TrimSpace(args)) {
	case "on":
		if err := h.settings.SetPostingEnabled(ctx, true); err != nil {
			return h.replyError(ctx, message.Chat.ID, localizer, err)
		}
		return h.reply(ctx, message.Chat.ID, localizer, "MsgPostingEnabled", nil)
	case "off":
		if err := h.settings.SetPostingEnabled(ctx, false); err != nil {
			return h.replyError(ctx, message.Chat.ID, localizer, err)
		}
		return h.reply(ctx, message.Chat.ID, localizer, "MsgPostingDisabled", nil)
	default:
		enabled, err := h.settings.PostingEnabled(ctx)
		if err != nil {
			return h.replyError(ctx, message.Chat.ID, localizer, err)
		}
		msgID := "MsgPostingDisabled"
		if enabled {
			msgID = "MsgPostingEnabled"
		}
		return h.reply(ctx, message.Chat.ID, localizer, msgID, nil)
	}
}

// HandleSetTarget sets the publish target chat id, prompting when no argument
// is given.
func (h *MessageHandler) HandleSetTarget(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	if strings.TrimSpace(args) == "" {
		h.sessions.Begin(message.From.ID, sessions.StateAwaitingTargetChat, "")
		return h.reply(ctx, message.Chat.ID, localizer, "MsgTargetChatPrompt", nil)
	}
	return h.setChatSetting(ctx, message.Chat.ID, message.From, args, sessions.StateAwaitingTargetChat)
}

// HandleSetAdminGroup sets the lead-forwarding chat id.
func (h *MessageHandler) HandleSetAdminGroup(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	if strings.TrimSpace(args) == "" {
		h.sessions.Begin(message.From.ID, sessions.StateAwaitingAdminChat, "")
		return h.reply(ctx, message.Chat.ID, localizer, "MsgAdminChatPrompt", nil)
	}
	return h.setChatSetting(ctx, message.Chat.ID, message.From, args, sessions.StateAwaitingAdminChat)
}

// setChatSetting parses a chat id argument and stores it under the setting the
// flow state identifies. Shared by the direct commands and the prompt flows.
func (h *MessageHandler) setChatSetting(ctx context.Context, chatID int64, from *telego.User, raw string, state sessions.State) error {
	localizer := h.localizerFor(from)

	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || parsed == 0 {
		return h.reply(ctx, chatID, localizer, "MsgBadChatID", nil)
	}

	switch state {
	case sessions.StateAwaitingTargetChat:
		if err := h.settings.SetTargetChatID(ctx, parsed); err != nil {
			return h.replyError(ctx, chatID, localizer, err)
		}
		return h.reply(ctx, chatID, localizer, "MsgTargetChatSet", map[string]interface{}{"ChatID": parsed})
	case sessions.StateAwaitingAdminChat:
		if err := h.settings.SetAdminChatID(ctx, parsed); err != nil {
			return h.replyError(ctx, chatID, localizer, err)
		}
		return h.reply(ctx, chatID, localizer, "MsgAdminChatSet", map[string]interface{}{"ChatID": parsed})
	}
	return nil
}

// HandleSetBanner starts the banner upload flow.
func (h *MessageHandler) HandleSetBanner(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)
	h.sessions.Begin(message.From.ID, sessions.StateAwaitingBanner, "")
	return h.reply(ctx, message.Chat.ID, localizer, "MsgBannerPrompt", nil)
}

// HandleLeads lists unanswered leads, newest first. "/leads all" includes
// answered ones.
func (h *MessageHandler) HandleLeads(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	var list []models.Lead
	var err error
	if strings.EqualFold(strings.TrimSpace(args), "all") {
		list, err = h.leadService.ListRecent(ctx, listLimit)
	} else {
		list, err = h.leadService.ListUnanswered(ctx, listLimit)
	}
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if len(list) == 0 {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgLeadsEmpty", nil)
	}

	var b strings.Builder
	b.WriteString(locales.GetMessage(localizer, "MsgLeadsHeader", nil))
	for _, lead := range list {
		who := fmt.Sprintf("user %d", lead.TelegramUserID)
		if customer, err := h.leadService.CustomerByTelegramID(ctx, lead.TelegramUserID); err == nil && customer != nil && customer.Username != "" {
			who = "@" + customer.Username
		}
		line := fmt.Sprintf("\n%s | %s | %s | %s",
			lead.ID.Hex(), who, lead.Status, lead.CreatedAt.Format("2006-01-02 15:04"))
		if lead.TakenBy != nil {
			line += fmt.Sprintf(" | taken by %d", *lead.TakenBy)
		}
		if lead.Answered {
			line += " | answered"
		}
		b.WriteString(line)
	}

	_, err = h.bot.SendMessage(ctx, tu.Message(tu.ID(message.Chat.ID), b.String()))
	return err
}

// HandleAddAdmin adds a Telegram id to the persisted admin set.
func (h *MessageHandler) HandleAddAdmin(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	telegramID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || telegramID == 0 {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgAdminUsage", nil)
	}

	added, err := h.adminRepo.Add(ctx, &models.Admin{TelegramID: telegramID})
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if !added {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgAdminExists", map[string]interface{}{"ID": telegramID})
	}
	return h.reply(ctx, message.Chat.ID, localizer, "MsgAdminAdded", map[string]interface{}{"ID": telegramID})
}

// HandleDelAdmin removes a Telegram id from the persisted admin set.
func (h *MessageHandler) HandleDelAdmin(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	telegramID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || telegramID == 0 {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgAdminUsage", nil)
	}

	removed, err := h.adminRepo.Remove(ctx, telegramID)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if !removed {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgAdminNotFound", map[string]interface{}{"ID": telegramID})
	}
	return h.reply(ctx, message.Chat.ID, localizer, "MsgAdminRemoved", map[string]interface{}{"ID": telegramID})
}

// HandleAdmins lists the persisted admin set.
func (h *MessageHandler) HandleAdmins(ctx context.Context, message telego.Message, args string) error {
	localizer := h.localizerFor(message.From)

	admins, err := h.adminRepo.List(ctx)
	if err != nil {
		return h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if len(admins) == 0 {
		return h.reply(ctx, message.Chat.ID, localizer, "MsgAdminListEmpty", nil)
	}

	var b strings.Builder
	b.WriteString(locales.GetMessage(localizer, "MsgAdminListHeader", nil))
	for _, admin := range admins {
		line := fmt.Sprintf("\n%d", admin.TelegramID)
		if admin.Username != "" {
			line += " @" + admin.Username
		}
		b.WriteString(line)
	}

	_, err = h.bot.SendMessage(ctx, tu.Message(tu.ID(message.Chat.ID), b.String()))
	return err
}
