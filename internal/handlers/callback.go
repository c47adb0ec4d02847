package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"promobot/internal/locales"
	"promobot/internal/sessions"
)

// HandleCallbackQuery routes inline button presses. Callback data is
// "<action>:<object id hex>" where action is one of the Callback* prefixes.
func (h *MessageHandler) HandleCallbackQuery(ctx context.Context, query telego.CallbackQuery) error {
	localizer := h.localizerFor(&query.From)

	switch {
	case strings.HasPrefix(query.Data, CallbackLeadTake+":"):
		return h.handleLeadTake(ctx, query, localizer, strings.TrimPrefix(query.Data, CallbackLeadTake+":"))
	case strings.HasPrefix(query.Data, CallbackLeadAnswer+":"):
		return h.handleLeadAnswer(ctx, query, localizer, strings.TrimPrefix(query.Data, CallbackLeadAnswer+":"))
	case strings.HasPrefix(query.Data, CallbackBindPick+":"):
		return h.handleBindPick(ctx, query, localizer, strings.TrimPrefix(query.Data, CallbackBindPick+":"))
	}

	h.answerCallback(ctx, query.ID, "", false)
	return nil
}

// handleLeadTake claims the lead for the pressing admin. Exactly one of
// concurrent presses wins; the rest learn who took it.
func (h *MessageHandler) handleLeadTake(ctx context.Context, query telego.CallbackQuery, localizer *i18n.Localizer, hex string) error {
	authorized, err := h.authChecker.IsAuthorized(ctx, query.From.ID)
	if err != nil {
		return err
	}
	if !authorized {
		h.answerCallback(ctx, query.ID, locales.GetMessage(localizer, "MsgErrorRequiresAdmin", nil), true)
		return nil
	}

	leadID, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		h.answerCallback(ctx, query.ID, "", false)
		return nil
	}

	taken, err := h.leadService.Take(ctx, leadID, query.From.ID)
	if err != nil {
		h.answerCallback(ctx, query.ID, locales.GetMessage(localizer, "MsgErrorGeneral", nil), true)
		return err
	}
	if !taken {
		lead, getErr := h.leadService.Get(ctx, leadID)
		text := locales.GetMessage(localizer, "MsgLeadAlreadyTaken", nil)
		if getErr == nil && lead.TakenBy != nil {
			text = locales.GetMessage(localizer, "MsgLeadAlreadyTakenBy", map[string]interface{}{"ID": *lead.TakenBy})
		}
		h.answerCallback(ctx, query.ID, text, true)
		return nil
	}

	taker := query.From.FirstName
	if query.From.Username != "" {
		taker = "@" + query.From.Username
	}
	h.answerCallback(ctx, query.ID, locales.GetMessage(localizer, "MsgLeadTaken", map[string]interface{}{"Admin": taker}), false)
	h.refreshLeadCard(ctx, query, leadID)
	return nil
}

// handleLeadAnswer marks the lead answered. The card keeps its buttons so a
// second admin can still see the original lead text.
func (h *MessageHandler) handleLeadAnswer(ctx context.Context, query telego.CallbackQuery, localizer *i18n.Localizer, hex string) error {
	authorized, err := h.authChecker.IsAuthorized(ctx, query.From.ID)
	if err != nil {
		return err
	}
	if !authorized {
		h.answerCallback(ctx, query.ID, locales.GetMessage(localizer, "MsgErrorRequiresAdmin", nil), true)
		return nil
	}

	leadID, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		h.answerCallback(ctx, query.ID, "", false)
		return nil
	}

	marked, err := h.leadService.MarkAnswered(ctx, leadID, query.From.ID)
	if err != nil {
		h.answerCallback(ctx, query.ID, locales.GetMessage(localizer, "MsgErrorGeneral", nil), true)
		return err
	}
	if !marked {
		h.answerCallback(ctx, query.ID, locales.GetMessage(localizer, "MsgLeadNotFound", nil), true)
		return nil
	}

	h.answerCallback(ctx, query.ID, locales.GetMessage(localizer, "MsgLeadAnswered", nil), false)
	h.refreshLeadCard(ctx, query, leadID)
	return nil
}

// handleBindPick records the chosen schedule and asks for the content id.
func (h *MessageHandler) handleBindPick(ctx context.Context, query telego.CallbackQuery, localizer *i18n.Localizer, hex string) error {
	authorized, err := h.authChecker.IsAuthorized(ctx, query.From.ID)
	if err != nil {
		return err
	}
	if !authorized {
		h.answerCallback(ctx, query.ID, locales.GetMessage(localizer, "MsgErrorRequiresAdmin", nil), true)
		return nil
	}

	scheduleID, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		h.answerCallback(ctx, query.ID, "", false)
		return nil
	}

	schedule, err := h.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		h.answerCallback(ctx, query.ID, locales.GetMessage(localizer, "MsgErrorGeneral", nil), true)
		return err
	}

	h.sessions.Begin(query.From.ID, sessions.StateAwaitingBindContent, scheduleID.Hex())
	h.answerCallback(ctx, query.ID, "", false)

	msg, ok := query.Message.(*telego.Message)
	if !ok {
		return nil
	}

	text := locales.GetMessage(localizer, "MsgBindPickContent", map[string]interface{}{"Time": schedule.TimeOfDay})
	active, err := h.contentRepo.ListActive(ctx, listLimit)
	if err != nil {
		return err
	}
	for _, item := range active {
		text += fmt.Sprintf("\n%s | %s", item.ID.Hex(), item.Type)
	}
	_, err = h.bot.SendMessage(ctx, tu.Message(tu.ID(msg.Chat.ID), text))
	return err
}

// refreshLeadCard rewrites the buttons under an admin-chat lead card to show
// its current claim state.
func (h *MessageHandler) refreshLeadCard(ctx context.Context, query telego.CallbackQuery, leadID primitive.ObjectID) {
	msg, ok := query.Message.(*telego.Message)
	if !ok {
		return
	}

	lead, err := h.leadService.Get(ctx, leadID)
	if err != nil {
		return
	}

	localizer := h.localizerFor(nil)
	var rows [][]telego.InlineKeyboardButton
	if lead.TakenBy == nil {
		rows = append(rows, []telego.InlineKeyboardButton{{
			Text:         locales.GetMessage(localizer, "BtnTakeLead", nil),
			CallbackData: fmt.Sprintf("%s:%s", CallbackLeadTake, lead.ID.Hex()),
		}})
	}
	if !lead.Answered {
		rows = append(rows, []telego.InlineKeyboardButton{{
			Text:         locales.GetMessage(localizer, "BtnAnswerLead", nil),
			CallbackData: fmt.Sprintf("%s:%s", CallbackLeadAnswer, lead.ID.Hex()),
		}})
	}

	var markup *telego.InlineKeyboardMarkup
	if len(rows) > 0 {
		markup = &telego.InlineKeyboardMarkup{InlineKeyboard: rows}
	}
	_, err = h.bot.EditMessageReplyMarkup(ctx, &telego.EditMessageReplyMarkupParams{
		ChatID:      telego.ChatID{ID: msg.Chat.ID},
		MessageID:   msg.MessageID,
		ReplyMarkup: markup,
	})
	if err != nil {
		log.Printf("[HandleCallbackQuery] Failed to update lead card markup: %v", err)
	}
}
