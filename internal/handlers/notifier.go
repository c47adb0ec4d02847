package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"promobot/internal/database/models"
	"promobot/internal/locales"
	telegoapi "promobot/pkg/telegoapi"
)

// LeadNotifier posts lead cards to the admin chat. Each card carries the
// sender identity, the message text and take / answer buttons.
type LeadNotifier struct {
	bot telegoapi.BotAPI
}

// NewLeadNotifier creates a LeadNotifier around the given bot API.
func NewLeadNotifier(bot telegoapi.BotAPI) *LeadNotifier {
	return &LeadNotifier{bot: bot}
}

// NotifyNewLead sends the lead card. Admin chats get the default language;
// the sender's language preference does not apply here.
func (n *LeadNotifier) NotifyNewLead(ctx context.Context, adminChatID int64, lead *models.Lead, user *models.User) error {
	localizer := locales.NewLocalizer(locales.GetDefaultLanguageTag().String())

	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = fmt.Sprintf("id %d", user.TelegramID)
	}
	username := user.Username
	if username == "" {
		username = "-"
	}

	text := locales.GetMessage(localizer, "MsgLeadCard", map[string]interface{}{
		"Name":     name,
		"Username": username,
		"UserID":   user.TelegramID,
		"Text":     lead.MessageText,
	})
	if lead.Phone != "" {
		text += locales.GetMessage(localizer, "MsgLeadCardPhone", map[string]interface{}{"Phone": lead.Phone})
	}

	keyboard := tu.InlineKeyboard(
		tu.InlineKeyboardRow(telego.InlineKeyboardButton{
			Text:         locales.GetMessage(localizer, "BtnTakeLead", nil),
			CallbackData: fmt.Sprintf("%s:%s", CallbackLeadTake, lead.ID.Hex()),
		}),
		tu.InlineKeyboardRow(telego.InlineKeyboardButton{
			Text:         locales.GetMessage(localizer, "BtnAnswerLead", nil),
			CallbackData: fmt.Sprintf("%s:%s", CallbackLeadAnswer, lead.ID.Hex()),
		}),
	)

	msg := tu.Message(tu.ID(adminChatID), text)
	msg.ReplyMarkup = keyboard
	_, err := n.bot.SendMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send lead card: %w", err)
	}
	return nil
}
