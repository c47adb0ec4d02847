package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"promobot/internal/locales"
)

// localizerFor builds a localizer preferring the user's Telegram language.
func (h *MessageHandler) localizerFor(user *telego.User) *i18n.Localizer {
	lang := locales.GetDefaultLanguageTag().String()
	if user != nil && user.LanguageCode != "" {
		return locales.NewLocalizer(user.LanguageCode, lang)
	}
	return locales.NewLocalizer(lang)
}

// reply sends a localized message to the chat the update came from.
func (h *MessageHandler) reply(ctx context.Context, chatID int64, localizer *i18n.Localizer, msgID string, data map[string]interface{}) error {
	text := locales.GetMessage(localizer, msgID, data)
	_, err := h.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text))
	if err != nil {
		return fmt.Errorf("failed to send %q to chat %d: %w", msgID, chatID, err)
	}
	return nil
}

// replyError reports an internal failure to sentry and tells the user
// something generic went wrong.
func (h *MessageHandler) replyError(ctx context.Context, chatID int64, localizer *i18n.Localizer, err error) error {
	log.Printf("[Handler Chat:%d] %v", chatID, err)
	sentry.CaptureException(err)
	return h.reply(ctx, chatID, localizer, "MsgErrorGeneral", nil)
}

// requireAdmin checks the caller against the authorization predicate
// (owner or admin) and sends the refusal message itself. ok=false means the
// handler must return without acting.
func (h *MessageHandler) requireAdmin(ctx context.Context, message telego.Message, localizer *i18n.Localizer) (bool, error) {
	authorized, err := h.authChecker.IsAuthorized(ctx, message.From.ID)
	if err != nil {
		return false, h.replyError(ctx, message.Chat.ID, localizer, err)
	}
	if !authorized {
		return false, h.reply(ctx, message.Chat.ID, localizer, "MsgErrorRequiresAdmin", nil)
	}
	return true, nil
}

// requireOwner is requireAdmin's stricter sibling for admin-set management.
func (h *MessageHandler) requireOwner(ctx context.Context, message telego.Message, localizer *i18n.Localizer) (bool, error) {
	if !h.authChecker.IsOwner(message.From.ID) {
		return false, h.reply(ctx, message.Chat.ID, localizer, "MsgErrorRequiresOwner", nil)
	}
	return true, nil
}

// answerCallback acknowledges a callback query with optional alert text.
func (h *MessageHandler) answerCallback(ctx context.Context, queryID, text string, showAlert bool) {
	err := h.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
		ShowAlert:       showAlert,
	})
	if err != nil {
		log.Printf("[Callback %s] Failed to answer: %v", queryID, err)
	}
}

// SetupCommands registers the public command menu with Telegram.
func (h *MessageHandler) SetupCommands(ctx context.Context) error {
	localizer := locales.NewLocalizer(locales.GetDefaultLanguageTag().String())

	var cmds []telego.BotCommand
	for _, cmd := range h.commands {
		if cmd.Description == "" {
			continue // admin commands stay out of the public menu
		}
		cmds = append(cmds, telego.BotCommand{
			Command:     cmd.Command,
			Description: locales.GetMessage(localizer, cmd.Description, nil),
		})
	}

	if err := h.bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{Commands: cmds}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	return nil
}
