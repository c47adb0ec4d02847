package posting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"promobot/internal/database"
	"promobot/internal/database/models"
	"promobot/internal/settings"
)

// --- Mocks ---

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

// MockScheduleRepository mocks database.ScheduleRepository.
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) Add(ctx context.Context, timeOfDay string) (*models.Schedule, error) {
	args := m.Called(ctx, timeOfDay)
	if schedule, ok := args.Get(0).(*models.Schedule); ok {
		return schedule, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockScheduleRepository) RemoveByTime(ctx context.Context, timeOfDay string) (bool, error) {
	args := m.Called(ctx, timeOfDay)
	return args.Bool(0), args.Error(1)
}

func (m *MockScheduleRepository) List(ctx context.Context) ([]models.Schedule, error) {
	args := m.Called(ctx)
	if schedules, ok := args.Get(0).([]models.Schedule); ok {
		return schedules, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockScheduleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Schedule, error) {
	args := m.Called(ctx, id)
	if schedule, ok := args.Get(0).(*models.Schedule); ok {
		return schedule, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockScheduleRepository) SetEnabled(ctx context.Context, timeOfDay string, enabled bool) (bool, error) {
	args := m.Called(ctx, timeOfDay, enabled)
	return args.Bool(0), args.Error(1)
}

func (m *MockScheduleRepository) BindContent(ctx context.Context, scheduleID, contentID primitive.ObjectID) error {
	args := m.Called(ctx, scheduleID, contentID)
	return args.Error(0)
}

func (m *MockScheduleRepository) Unbind(ctx context.Context, scheduleID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, scheduleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockScheduleRepository) BoundContent(ctx context.Context, scheduleID primitive.ObjectID) (primitive.ObjectID, bool, error) {
	args := m.Called(ctx, scheduleID)
	if id, ok := args.Get(0).(primitive.ObjectID); ok {
		return id, args.Bool(1), args.Error(2)
	}
	return primitive.NilObjectID, args.Bool(1), args.Error(2)
}

func (m *MockScheduleRepository) BoundSchedules(ctx context.Context, contentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, contentID)
	if ids, ok := args.Get(0).([]primitive.ObjectID); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockContentRepository mocks database.ContentRepository.
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) Create(ctx context.Context, content *models.Content) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockContentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Content, error) {
	args := m.Called(ctx, id)
	if content, ok := args.Get(0).(*models.Content); ok {
		return content, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockContentRepository) ListHistory(ctx context.Context, limit int) ([]models.Content, error) {
	args := m.Called(ctx, limit)
	if items, ok := args.Get(0).([]models.Content); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockContentRepository) ListActive(ctx context.Context, limit int) ([]models.Content, error) {
	args := m.Called(ctx, limit)
	if items, ok := args.Get(0).([]models.Content); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockContentRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockContentRepository) Reactivate(ctx context.Context, id primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockContentRepository) SetPublishingEnabled(ctx context.Context, id primitive.ObjectID, enabled bool) (bool, error) {
	args := m.Called(ctx, id, enabled)
	return args.Bool(0), args.Error(1)
}

func (m *MockContentRepository) LastPublishedAt(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]time.Time, error) {
	args := m.Called(ctx, ids)
	if result, ok := args.Get(0).(map[primitive.ObjectID]time.Time); ok {
		return result, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPostLogRepository mocks database.PostLogRepository.
type MockPostLogRepository struct {
	mock.Mock
}

func (m *MockPostLogRepository) Append(ctx context.Context, entry *models.PostLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPostLogRepository) CountForContent(ctx context.Context, contentID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, contentID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPublisher mocks the Publisher transport.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) SendPhoto(ctx context.Context, chatID int64, fileID, caption, linkPayload string) (int, error) {
	args := m.Called(ctx, chatID, fileID, caption, linkPayload)
	return args.Int(0), args.Error(1)
}

func (m *MockPublisher) SendVideo(ctx context.Context, chatID int64, fileID, caption, linkPayload string) (int, error) {
	args := m.Called(ctx, chatID, fileID, caption, linkPayload)
	return args.Int(0), args.Error(1)
}

func (m *MockPublisher) SendText(ctx context.Context, chatID int64, text, linkPayload string) (int, error) {
	args := m.Called(ctx, chatID, text, linkPayload)
	return args.Int(0), args.Error(1)
}

// --- Test Suite Setup ---

type dispatcherSuite struct {
	settingsRepo *MockSettingsRepository
	schedules    *MockScheduleRepository
	content      *MockContentRepository
	postLog      *MockPostLogRepository
	publisher    *MockPublisher
	dispatcher   *Dispatcher
}

func setupDispatcherSuite(t *testing.T) *dispatcherSuite {
	t.Helper()

	s := &dispatcherSuite{
		settingsRepo: new(MockSettingsRepository),
		schedules:    new(MockScheduleRepository),
		content:      new(MockContentRepository),
		postLog:      new(MockPostLogRepository),
		publisher:    new(MockPublisher),
	}

	dispatcher, err := NewDispatcher(
		settings.NewStore(s.settingsRepo),
		s.schedules,
		s.content,
		s.postLog,
		s.publisher,
	)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	s.dispatcher = dispatcher
	return s
}

func (s *dispatcherSuite) assertExpectations(t *testing.T) {
	s.settingsRepo.AssertExpectations(t)
	s.schedules.AssertExpectations(t)
	s.content.AssertExpectations(t)
	s.postLog.AssertExpectations(t)
	s.publisher.AssertExpectations(t)
}

func (s *dispatcherSuite) expectPostingEnabled(ctx context.Context, value string) {
	s.settingsRepo.On("Get", ctx, settings.KeyPostingEnabled).Return(value, nil).Once()
}

func (s *dispatcherSuite) expectTargetChat(ctx context.Context, value string) {
	s.settingsRepo.On("Get", ctx, settings.KeyTargetChatID).Return(value, nil).Once()
}

func activePhotoContent(id primitive.ObjectID) *models.Content {
	return &models.Content{
		ID:                id,
		Type:              models.ContentTypePhoto,
		FileID:            "photo-file-id",
		Caption:           "caption",
		Status:            models.ContentStatusActive,
		PublishingEnabled: true,
	}
}

// --- Tests ---

func TestDispatcherOnFire(t *testing.T) {
	ctx := context.Background()
	scheduleID := primitive.NewObjectID()
	contentID := primitive.NewObjectID()

	t.Run("PublishesBoundContent", func(t *testing.T) {
		s := setupDispatcherSuite(t)
		s.expectPostingEnabled(ctx, "1")
		s.expectTargetChat(ctx, "-100200300")
		s.schedules.On("BoundContent", ctx, scheduleID).Return(contentID, true, nil).Once()
		s.content.On("GetByID", ctx, contentID).Return(activePhotoContent(contentID), nil).Once()
		s.publisher.On("SendPhoto", ctx, int64(-100200300), "photo-file-id", "caption", contentID.Hex()).
			Return(777, nil).Once()

		var loggedEntry *models.PostLog
		s.postLog.On("Append", ctx, mock.AnythingOfType("*models.PostLog")).
			Run(func(args mock.Arguments) {
				loggedEntry = args.Get(1).(*models.PostLog)
			}).
			Return(nil).Once()

		s.dispatcher.OnFire(ctx, scheduleID)

		s.assertExpectations(t)
		assert.NotNil(t, loggedEntry)
		if loggedEntry != nil {
			assert.Equal(t, contentID, loggedEntry.ContentID)
			assert.Equal(t, int64(-100200300), loggedEntry.ChatID)
			assert.Equal(t, 777, loggedEntry.MessageID)
		}
	})

	t.Run("SkipsWhenPostingDisabled", func(t *testing.T) {
		s := setupDispatcherSuite(t)
		s.expectPostingEnabled(ctx, "0")

		s.dispatcher.OnFire(ctx, scheduleID)

		s.assertExpectations(t)
		s.publisher.AssertNotCalled(t, "SendPhoto", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		s.postLog.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("SkipsWhenTargetNotConfigured", func(t *testing.T) {
		s := setupDispatcherSuite(t)
		s.expectPostingEnabled(ctx, "1")
		s.expectTargetChat(ctx, "")

		s.dispatcher.OnFire(ctx, scheduleID)

		s.assertExpectations(t)
		s.postLog.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("SkipsWhenScheduleUnbound", func(t *testing.T) {
		s := setupDispatcherSuite(t)
		s.expectPostingEnabled(ctx, "1")
		s.expectTargetChat(ctx, "-100200300")
		s.schedules.On("BoundContent", ctx, scheduleID).Return(primitive.NilObjectID, false, nil).Once()

		s.dispatcher.OnFire(ctx, scheduleID)

		s.assertExpectations(t)
		s.content.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("SkipsWhenBoundContentDeleted", func(t *testing.T) {
		s := setupDispatcherSuite(t)
		s.expectPostingEnabled(ctx, "1")
		s.expectTargetChat(ctx, "-100200300")
		s.schedules.On("BoundContent", ctx, scheduleID).Return(contentID, true, nil).Once()

		deleted := activePhotoContent(contentID)
		deleted.Status = models.ContentStatusDeleted
		s.content.On("GetByID", ctx, contentID).Return(deleted, nil).Once()

		s.dispatcher.OnFire(ctx, scheduleID)

		s.assertExpectations(t)
		s.publisher.AssertNotCalled(t, "SendPhoto", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		s.postLog.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("SkipsWhenPublishingDisabledOnContent", func(t *testing.T) {
		s := setupDispatcherSuite(t)
		s.expectPostingEnabled(ctx, "1")
		s.expectTargetChat(ctx, "-100200300")
		s.schedules.On("BoundContent", ctx, scheduleID).Return(contentID, true, nil).Once()

		paused := activePhotoContent(contentID)
		paused.PublishingEnabled = false
		s.content.On("GetByID", ctx, contentID).Return(paused, nil).Once()

		s.dispatcher.OnFire(ctx, scheduleID)

		s.assertExpectations(t)
		s.postLog.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("NoLogEntryWhenTransportFails", func(t *testing.T) {
		s := setupDispatcherSuite(t)
		s.expectPostingEnabled(ctx, "1")
		s.expectTargetChat(ctx, "-100200300")
		s.schedules.On("BoundContent", ctx, scheduleID).Return(contentID, true, nil).Once()
		s.content.On("GetByID", ctx, contentID).Return(activePhotoContent(contentID), nil).Once()
		s.publisher.On("SendPhoto", ctx, int64(-100200300), "photo-file-id", "caption", contentID.Hex()).
			Return(0, errors.New("telegram unavailable")).Once()

		s.dispatcher.OnFire(ctx, scheduleID)

		s.assertExpectations(t)
		s.postLog.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("TextContentFallsBackToCaption", func(t *testing.T) {
		s := setupDispatcherSuite(t)
		s.expectPostingEnabled(ctx, "1")
		s.expectTargetChat(ctx, "-100200300")
		s.schedules.On("BoundContent", ctx, scheduleID).Return(contentID, true, nil).Once()

		content := &models.Content{
			ID:                contentID,
			Type:              models.ContentTypeText,
			Caption:           "caption only",
			Status:            models.ContentStatusActive,
			PublishingEnabled: true,
		}
		s.content.On("GetByID", ctx, contentID).Return(content, nil).Once()
		s.publisher.On("SendText", ctx, int64(-100200300), "caption only", contentID.Hex()).Return(555, nil).Once()
		s.postLog.On("Append", ctx, mock.AnythingOfType("*models.PostLog")).Return(nil).Once()

		s.dispatcher.OnFire(ctx, scheduleID)

		s.assertExpectations(t)
	})
}

func TestDispatcherPostNow(t *testing.T) {
	ctx := context.Background()
	contentID := primitive.NewObjectID()

	t.Run("BypassesPostingToggle", func(t *testing.T) {
		s := setupDispatcherSuite(t)
		// The global toggle is never consulted; only the target chat is.
		s.expectTargetChat(ctx, "-100200300")
		s.content.On("GetByID", ctx, contentID).Return(activePhotoContent(contentID), nil).Once()
		s.publisher.On("SendPhoto", ctx, int64(-100200300), "photo-file-id", "caption", contentID.Hex()).
			Return(888, nil).Once()
		s.postLog.On("Append", ctx, mock.AnythingOfType("*models.PostLog")).Return(nil).Once()

		posted, err := s.dispatcher.PostNow(ctx, contentID)

		assert.NoError(t, err)
		assert.True(t, posted)
		s.assertExpectations(t)
		s.settingsRepo.AssertNotCalled(t, "Get", ctx, settings.KeyPostingEnabled)
	})

	t.Run("FalseWhenTargetNotConfigured", func(t *testing.T) {
		s := setupDispatcherSuite(t)
		s.expectTargetChat(ctx, "")

		posted, err := s.dispatcher.PostNow(ctx, contentID)

		assert.NoError(t, err)
		assert.False(t, posted)
		s.assertExpectations(t)
	})

	t.Run("FalseForUnknownContent", func(t *testing.T) {
		s := setupDispatcherSuite(t)
		s.expectTargetChat(ctx, "-100200300")
		s.content.On("GetByID", ctx, contentID).Return(nil, database.ErrContentNotFound).Once()

		posted, err := s.dispatcher.PostNow(ctx, contentID)

		assert.NoError(t, err)
		assert.False(t, posted)
		s.assertExpectations(t)
	})

	t.Run("FalseForNonPostableContent", func(t *testing.T) {
		s := setupDispatcherSuite(t)
		s.expectTargetChat(ctx, "-100200300")

		paused := activePhotoContent(contentID)
		paused.PublishingEnabled = false
		s.content.On("GetByID", ctx, contentID).Return(paused, nil).Once()

		posted, err := s.dispatcher.PostNow(ctx, contentID)

		assert.NoError(t, err)
		assert.False(t, posted)
		s.assertExpectations(t)
		s.postLog.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}
