package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSettingsRepository mocks database.SettingsRepository.
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsRepository) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func TestStoreDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("PostingDisabledByDefault", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("Get", ctx, KeyPostingEnabled).Return("", nil).Once()

		enabled, err := NewStore(repo).PostingEnabled(ctx)
		assert.NoError(t, err)
		assert.False(t, enabled)
		repo.AssertExpectations(t)
	})

	t.Run("TargetChatUnconfiguredByDefault", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("Get", ctx, KeyTargetChatID).Return("", nil).Once()

		_, ok, err := NewStore(repo).TargetChatID(ctx)
		assert.NoError(t, err)
		assert.False(t, ok)
		repo.AssertExpectations(t)
	})
}

func TestStoreChatIDParsing(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidNegativeChatID", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("Get", ctx, KeyTargetChatID).Return("-1001234567890", nil).Once()

		id, ok, err := NewStore(repo).TargetChatID(ctx)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(-1001234567890), id)
	})

	t.Run("GarbageReadsAsUnconfigured", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("Get", ctx, KeyAdminChatID).Return("not-a-number", nil).Once()

		_, ok, err := NewStore(repo).AdminChatID(ctx)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ZeroReadsAsUnconfigured", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("Get", ctx, KeyTargetChatID).Return("0", nil).Once()

		_, ok, err := NewStore(repo).TargetChatID(ctx)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStorePostingToggle(t *testing.T) {
	ctx := context.Background()

	t.Run("AcceptedTrueForms", func(t *testing.T) {
		for _, raw := range []string{"1", "true"} {
			repo := new(MockSettingsRepository)
			repo.On("Get", ctx, KeyPostingEnabled).Return(raw, nil).Once()

			enabled, err := NewStore(repo).PostingEnabled(ctx)
			assert.NoError(t, err)
			assert.True(t, enabled, "raw %q", raw)
		}
	})

	t.Run("SetWritesCanonicalForm", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("Set", ctx, KeyPostingEnabled, "1").Return(nil).Once()
		repo.On("Set", ctx, KeyPostingEnabled, "0").Return(nil).Once()

		store := NewStore(repo)
		assert.NoError(t, store.SetPostingEnabled(ctx, true))
		assert.NoError(t, store.SetPostingEnabled(ctx, false))
		repo.AssertExpectations(t)
	})
}
