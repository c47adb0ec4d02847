package posting

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"go.uber.org/ratelimit"

	telegoapi "promobot/pkg/telegoapi"
)

// Publisher is the narrow publish contract the dispatcher consumes. Each call
// sends one message to the target chat and returns its message id. linkPayload,
// when non-empty, is attached as a deep-link "contact" button so inbound
// /start payloads can attribute the resulting lead to the published content.
type Publisher interface {
	SendPhoto(ctx context.Context, chatID int64, fileID, caption, linkPayload string) (int, error)
	SendVideo(ctx context.Context, chatID int64, fileID, caption, linkPayload string) (int, error)
	SendText(ctx context.Context, chatID int64, text, linkPayload string) (int, error)
}

// TelegramPublisher implements Publisher over the Telegram Bot API. Outbound
// sends are paced through a shared rate limiter to stay under Telegram's
// flood limits.
type TelegramPublisher struct {
	bot         telegoapi.BotAPI
	botUsername string
	contactText string
	ratelimiter ratelimit.Limiter
}

// NewTelegramPublisher creates a publisher sending through the given bot.
// botUsername is used to build deep links; contactText labels the contact
// button under each published post.
func NewTelegramPublisher(bot telegoapi.BotAPI, botUsername, contactText string) (*TelegramPublisher, error) {
	if bot == nil {
		return nil, fmt.Errorf("telego bot (BotAPI) instance cannot be nil")
	}
	if botUsername == "" {
		return nil, fmt.Errorf("bot username cannot be empty")
	}
	return &TelegramPublisher{
		bot:         bot,
		botUsername: botUsername,
		contactText: contactText,
		ratelimiter: ratelimit.New(20),
	}, nil
}

// SendPhoto publishes a photo by its Telegram file id.
func (p *TelegramPublisher) SendPhoto(ctx context.Context, chatID int64, fileID, caption, linkPayload string) (int, error) {
	p.ratelimiter.Take()

	params := &telego.SendPhotoParams{
		ChatID:      tu.ID(chatID),
		Photo:       telego.InputFile{FileID: fileID},
		Caption:     caption,
		ReplyMarkup: p.contactKeyboard(linkPayload),
	}
	msg, err := p.bot.SendPhoto(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to send photo to chat %d: %w", chatID, err)
	}
	return msg.MessageID, nil
}

// SendVideo publishes a video by its Telegram file id.
func (p *TelegramPublisher) SendVideo(ctx context.Context, chatID int64, fileID, caption, linkPayload string) (int, error) {
	p.ratelimiter.Take()

	params := &telego.SendVideoParams{
		ChatID:      tu.ID(chatID),
		Video:       telego.InputFile{FileID: fileID},
		Caption:     caption,
		ReplyMarkup: p.contactKeyboard(linkPayload),
	}
	msg, err := p.bot.SendVideo(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to send video to chat %d: %w", chatID, err)
	}
	return msg.MessageID, nil
}

// SendText publishes a plain text message.
func (p *TelegramPublisher) SendText(ctx context.Context, chatID int64, text, linkPayload string) (int, error) {
	p.ratelimiter.Take()

	params := &telego.SendMessageParams{
		ChatID:      tu.ID(chatID),
		Text:        text,
		ReplyMarkup: p.contactKeyboard(linkPayload),
	}
	msg, err := p.bot.SendMessage(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to send text to chat %d: %w", chatID, err)
	}
	return msg.MessageID, nil
}

// contactKeyboard builds the deep-link button for a published post, or nil
// when no attribution payload is given.
func (p *TelegramPublisher) contactKeyboard(linkPayload string) *telego.InlineKeyboardMarkup {
	if linkPayload == "" {
		return nil
	}
	url := fmt.Sprintf("https://t.me/%s?start=%s", p.botUsername, linkPayload)
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			telego.InlineKeyboardButton{Text: p.contactText, URL: url},
		),
	)
}
