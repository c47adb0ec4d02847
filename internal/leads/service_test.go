package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"promobot/internal/database/models"
	"promobot/internal/settings"
)

// --- Mocks ---

// MockLeadRepository mocks database.LeadRepository.
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	args := m.Called(ctx, lead)
	if args.Error(0) == nil && lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
		lead.Status = models.LeadStatusPending
		lead.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error) {
	args := m.Called(ctx, id)
	if lead, ok := args.Get(0).(*models.Lead); ok {
		return lead, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLeadRepository) Take(ctx context.Context, id primitive.ObjectID, byTelegramID int64) (bool, error) {
	args := m.Called(ctx, id, byTelegramID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) MarkAnswered(ctx context.Context, id primitive.ObjectID, byTelegramID int64) (bool, error) {
	args := m.Called(ctx, id, byTelegramID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) CountSince(ctx context.Context, telegramUserID int64, since time.Time) (int64, error) {
	args := m.Called(ctx, telegramUserID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) ListUnanswered(ctx context.Context, limit int) ([]models.Lead, error) {
	args := m.Called(ctx, limit)
	if leads, ok := args.Get(0).([]models.Lead); ok {
		return leads, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLeadRepository) ListRecent(ctx context.Context, limit int) ([]models.Lead, error) {
	args := m.Called(ctx, limit)
	if leads, ok := args.Get(0).([]models.Lead); ok {
		return leads, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockUserRepository mocks database.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*models.User, error) {
	args := m.Called(ctx, telegramID, username, firstName, lastName)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	args := m.Called(ctx, telegramID)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

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

// MockNotifier mocks the Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyNewLead(ctx context.Context, adminChatID int64, lead *models.Lead, user *models.User) error {
	args := m.Called(ctx, adminChatID, lead, user)
	return args.Error(0)
}

// --- Test Suite Setup ---

const (
	testRateLimit  = 3
	testRateWindow = time.Hour
)

type serviceSuite struct {
	leadRepo     *MockLeadRepository
	userRepo     *MockUserRepository
	settingsRepo *MockSettingsRepository
	notifier     *MockNotifier
	service      *Service
}

func setupServiceSuite(t *testing.T) *serviceSuite {
	t.Helper()

	s := &serviceSuite{
		leadRepo:     new(MockLeadRepository),
		userRepo:     new(MockUserRepository),
		settingsRepo: new(MockSettingsRepository),
		notifier:     new(MockNotifier),
	}

	service, err := NewService(
		s.leadRepo,
		s.userRepo,
		settings.NewStore(s.settingsRepo),
		s.notifier,
		testRateLimit,
		testRateWindow,
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	s.service = service
	return s
}

func (s *serviceSuite) assertExpectations(t *testing.T) {
	s.leadRepo.AssertExpectations(t)
	s.userRepo.AssertExpectations(t)
	s.settingsRepo.AssertExpectations(t)
	s.notifier.AssertExpectations(t)
}

var testProfile = Profile{
	TelegramID: 42001,
	Username:   "customer",
	FirstName:  "Chloe",
	LastName:   "Doe",
}

func testUser() *models.User {
	return &models.User{
		ID:         primitive.NewObjectID(),
		TelegramID: testProfile.TelegramID,
		Username:   testProfile.Username,
		FirstName:  testProfile.FirstName,
		LastName:   testProfile.LastName,
	}
}

// --- Tests ---

func TestServiceSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("RoutesToConfiguredAdminChat", func(t *testing.T) {
		s := setupServiceSuite(t)
		user := testUser()

		s.leadRepo.On("CountSince", ctx, testProfile.TelegramID, mock.AnythingOfType("time.Time")).
			Return(int64(0), nil).Once()
		s.userRepo.On("GetOrCreate", ctx, testProfile.TelegramID, testProfile.Username, testProfile.FirstName, testProfile.LastName).
			Return(user, nil).Once()
		s.leadRepo.On("Create", ctx, mock.AnythingOfType("*models.Lead")).Return(nil).Once()
		s.settingsRepo.On("Get", ctx, settings.KeyAdminChatID).Return("-100555", nil).Once()
		s.notifier.On("NotifyNewLead", ctx, int64(-100555), mock.AnythingOfType("*models.Lead"), user).
			Return(nil).Once()

		lead, routed, err := s.service.Submit(ctx, testProfile, "I want the offer", nil, "")

		assert.NoError(t, err)
		assert.True(t, routed)
		assert.NotNil(t, lead)
		if lead != nil {
			assert.Equal(t, user.ID, lead.UserID)
			assert.Equal(t, testProfile.TelegramID, lead.TelegramUserID)
			assert.Equal(t, "I want the offer", lead.MessageText)
		}
		s.assertExpectations(t)
	})

	t.Run("PersistedOnlyWithoutAdminChat", func(t *testing.T) {
		s := setupServiceSuite(t)

		s.leadRepo.On("CountSince", ctx, testProfile.TelegramID, mock.AnythingOfType("time.Time")).
			Return(int64(1), nil).Once()
		s.userRepo.On("GetOrCreate", ctx, testProfile.TelegramID, testProfile.Username, testProfile.FirstName, testProfile.LastName).
			Return(testUser(), nil).Once()
		s.leadRepo.On("Create", ctx, mock.AnythingOfType("*models.Lead")).Return(nil).Once()
		s.settingsRepo.On("Get", ctx, settings.KeyAdminChatID).Return("", nil).Once()

		lead, routed, err := s.service.Submit(ctx, testProfile, "hello", nil, "")

		assert.NoError(t, err)
		assert.False(t, routed)
		assert.NotNil(t, lead)
		s.notifier.AssertNotCalled(t, "NotifyNewLead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		s.assertExpectations(t)
	})

	t.Run("RoutingFailureDoesNotUndoIntake", func(t *testing.T) {
		s := setupServiceSuite(t)
		user := testUser()

		s.leadRepo.On("CountSince", ctx, testProfile.TelegramID, mock.AnythingOfType("time.Time")).
			Return(int64(0), nil).Once()
		s.userRepo.On("GetOrCreate", ctx, testProfile.TelegramID, testProfile.Username, testProfile.FirstName, testProfile.LastName).
			Return(user, nil).Once()
		s.leadRepo.On("Create", ctx, mock.AnythingOfType("*models.Lead")).Return(nil).Once()
		s.settingsRepo.On("Get", ctx, settings.KeyAdminChatID).Return("-100555", nil).Once()
		s.notifier.On("NotifyNewLead", ctx, int64(-100555), mock.AnythingOfType("*models.Lead"), user).
			Return(errors.New("admin chat unreachable")).Once()

		lead, routed, err := s.service.Submit(ctx, testProfile, "hello", nil, "")

		assert.NoError(t, err)
		assert.False(t, routed)
		assert.NotNil(t, lead)
		s.assertExpectations(t)
	})

	t.Run("CarriesSourceContentAndPhone", func(t *testing.T) {
		s := setupServiceSuite(t)
		sourceID := primitive.NewObjectID()

		s.leadRepo.On("CountSince", ctx, testProfile.TelegramID, mock.AnythingOfType("time.Time")).
			Return(int64(0), nil).Once()
		s.userRepo.On("GetOrCreate", ctx, testProfile.TelegramID, testProfile.Username, testProfile.FirstName, testProfile.LastName).
			Return(testUser(), nil).Once()
		s.leadRepo.On("Create", ctx, mock.AnythingOfType("*models.Lead")).Return(nil).Once()
		s.settingsRepo.On("Get", ctx, settings.KeyAdminChatID).Return("", nil).Once()

		lead, _, err := s.service.Submit(ctx, testProfile, "call me", &sourceID, "+15550100")

		assert.NoError(t, err)
		assert.NotNil(t, lead)
		if lead != nil {
			assert.Equal(t, &sourceID, lead.SourceContentID)
			assert.Equal(t, "+15550100", lead.Phone)
		}
		s.assertExpectations(t)
	})
}

func TestServiceSubmitRateLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("AcceptsBelowCeiling", func(t *testing.T) {
		s := setupServiceSuite(t)

		s.leadRepo.On("CountSince", ctx, testProfile.TelegramID, mock.AnythingOfType("time.Time")).
			Return(int64(testRateLimit-1), nil).Once()
		s.userRepo.On("GetOrCreate", ctx, testProfile.TelegramID, testProfile.Username, testProfile.FirstName, testProfile.LastName).
			Return(testUser(), nil).Once()
		s.leadRepo.On("Create", ctx, mock.AnythingOfType("*models.Lead")).Return(nil).Once()
		s.settingsRepo.On("Get", ctx, settings.KeyAdminChatID).Return("", nil).Once()

		_, _, err := s.service.Submit(ctx, testProfile, "last one within window", nil, "")

		assert.NoError(t, err)
		s.assertExpectations(t)
	})

	t.Run("RejectsAtCeiling", func(t *testing.T) {
		s := setupServiceSuite(t)

		s.leadRepo.On("CountSince", ctx, testProfile.TelegramID, mock.AnythingOfType("time.Time")).
			Return(int64(testRateLimit), nil).Once()

		lead, routed, err := s.service.Submit(ctx, testProfile, "one too many", nil, "")

		assert.ErrorIs(t, err, ErrRateLimited)
		assert.False(t, routed)
		assert.Nil(t, lead)
		s.leadRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		s.assertExpectations(t)
	})

	t.Run("WindowStartRespectsConfiguredDuration", func(t *testing.T) {
		s := setupServiceSuite(t)

		var capturedSince time.Time
		s.leadRepo.On("CountSince", ctx, testProfile.TelegramID, mock.AnythingOfType("time.Time")).
			Run(func(args mock.Arguments) {
				capturedSince = args.Get(2).(time.Time)
			}).
			Return(int64(testRateLimit), nil).Once()

		before := time.Now().Add(-testRateWindow)
		_, _, err := s.service.Submit(ctx, testProfile, "probe", nil, "")
		after := time.Now().Add(-testRateWindow)

		assert.ErrorIs(t, err, ErrRateLimited)
		assert.False(t, capturedSince.Before(before))
		assert.False(t, capturedSince.After(after))
	})
}

func TestServiceTake(t *testing.T) {
	ctx := context.Background()
	leadID := primitive.NewObjectID()

	t.Run("FirstCallerWins", func(t *testing.T) {
		s := setupServiceSuite(t)
		s.leadRepo.On("Take", ctx, leadID, int64(100)).Return(true, nil).Once()

		taken, err := s.service.Take(ctx, leadID, 100)

		assert.NoError(t, err)
		assert.True(t, taken)
		s.assertExpectations(t)
	})

	t.Run("SecondCallerLoses", func(t *testing.T) {
		s := setupServiceSuite(t)
		s.leadRepo.On("Take", ctx, leadID, int64(200)).Return(false, nil).Once()

		taken, err := s.service.Take(ctx, leadID, 200)

		assert.NoError(t, err)
		assert.False(t, taken)
		s.assertExpectations(t)
	})
}
