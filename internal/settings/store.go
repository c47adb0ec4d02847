// Package settings wraps the raw key/value settings repository with typed
// accessors and documented defaults: posting disabled, no target chat, no
// admin chat, no banner.
package settings

import (
	"context"
	"strconv"

	"promobot/internal/database"
)

// Setting keys.
const (
	KeyTargetChatID   = "target_chat_id"
	KeyAdminChatID    = "admin_chat_id"
	KeyPostingEnabled = "posting_enabled"
	KeyBannerFileID   = "banner_file_id"
)

// Store provides typed access to process-wide settings. Every dispatch
// decision reads through it, so values are never cached.
type Store struct {
	repo database.SettingsRepository
}

// NewStore creates a settings store over the given repository.
func NewStore(repo database.SettingsRepository) *Store {
	return &Store{repo: repo}
}

// TargetChatID returns the chat id posts are published to. ok is false when
// the target is not configured.
func (s *Store) TargetChatID(ctx context.Context) (int64, bool, error) {
	return s.chatID(ctx, KeyTargetChatID)
}

// SetTargetChatID stores the publish target chat id.
func (s *Store) SetTargetChatID(ctx context.Context, chatID int64) error {
	return s.repo.Set(ctx, KeyTargetChatID, strconv.FormatInt(chatID, 10))
}

// AdminChatID returns the chat id new leads are forwarded to. ok is false when
// lead routing is not configured.
func (s *Store) AdminChatID(ctx context.Context) (int64, bool, error) {
	return s.chatID(ctx, KeyAdminChatID)
}

// SetAdminChatID stores the lead-forwarding chat id.
func (s *Store) SetAdminChatID(ctx context.Context, chatID int64) error {
	return s.repo.Set(ctx, KeyAdminChatID, strconv.FormatInt(chatID, 10))
}

// PostingEnabled reports the global posting toggle. Default: disabled.
func (s *Store) PostingEnabled(ctx context.Context) (bool, error) {
	raw, err := s.repo.Get(ctx, KeyPostingEnabled)
	if err != nil {
		return false, err
	}
	return raw == "1" || raw == "true", nil
}

// SetPostingEnabled stores the global posting toggle.
func (s *Store) SetPostingEnabled(ctx context.Context, enabled bool) error {
	value := "0"
	if enabled {
		value = "1"
	}
	return s.repo.Set(ctx, KeyPostingEnabled, value)
}

// BannerFileID returns the configured banner asset id, or "" if none is set.
func (s *Store) BannerFileID(ctx context.Context) (string, error) {
	return s.repo.Get(ctx, KeyBannerFileID)
}

// SetBannerFileID stores the banner asset id.
func (s *Store) SetBannerFileID(ctx context.Context, fileID string) error {
	return s.repo.Set(ctx, KeyBannerFileID, fileID)
}

// chatID parses a stored chat id. An absent key, zero, or unparsable value all
// resolve to "not configured" rather than an error: the stored value is
// operator input, and a bad value must read as a skip, not a crash.
func (s *Store) chatID(ctx context.Context, key string) (int64, bool, error) {
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		return 0, false, err
	}
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false, nil
	}
	return id, true, nil
}
