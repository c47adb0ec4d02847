// Package leads implements lead intake and assignment: an inbound customer
// message becomes a pending lead (subject to a per-user rate window), is
// routed to the admin chat when one is configured, and is claimed by at most
// one admin.
package leads

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"promobot/internal/database"
	"promobot/internal/database/models"
	"promobot/internal/settings"
)

// ErrRateLimited is returned by Submit when the sender has reached the
// per-window lead ceiling. No lead is created in that case.
var ErrRateLimited = errors.New("lead rate limit reached")

// Notifier forwards a freshly created lead to the admin chat with an action
// surface (take / answer buttons). Implemented by the handler layer.
type Notifier interface {
	NotifyNewLead(ctx context.Context, adminChatID int64, lead *models.Lead, user *models.User) error
}

// Profile carries the sender identity fields Submit needs from the transport.
type Profile struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}

// Service implements lead intake and the assignment state machine over the
// lead repository.
type Service struct {
	leads    database.LeadRepository
	users    database.UserRepository
	settings *settings.Store
	notifier Notifier

	rateLimit  int
	rateWindow time.Duration
}

// NewService creates a lead service. rateLimit is the per-window ceiling and
// rateWindow the sliding window the intake pre-check counts over.
func NewService(
	leads database.LeadRepository,
	users database.UserRepository,
	settingsStore *settings.Store,
	notifier Notifier,
	rateLimit int,
	rateWindow time.Duration,
) (*Service, error) {
	if leads == nil {
		return nil, fmt.Errorf("lead repository cannot be nil")
	}
	if users == nil {
		return nil, fmt.Errorf("user repository cannot be nil")
	}
	if settingsStore == nil {
		return nil, fmt.Errorf("settings store cannot be nil")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier cannot be nil")
	}
	if rateLimit < 1 {
		return nil, fmt.Errorf("rate limit must be at least 1, got %d", rateLimit)
	}
	if rateWindow <= 0 {
		return nil, fmt.Errorf("rate window must be positive, got %s", rateWindow)
	}
	return &Service{
		leads:      leads,
		users:      users,
		settings:   settingsStore,
		notifier:   notifier,
		rateLimit:  rateLimit,
		rateWindow: rateWindow,
	}, nil
}

// Submit converts an inbound message into a lead. The rate pre-check is
// advisory check-then-act: a small overcount race between concurrent messages
// from the same user is accepted. routed reports whether the lead was
// forwarded to a configured admin chat; when false the lead is persisted only
// and the caller must still acknowledge the user.
func (s *Service) Submit(ctx context.Context, from Profile, text string, sourceContentID *primitive.ObjectID, phone string) (lead *models.Lead, routed bool, err error) {
	since := time.Now().Add(-s.rateWindow)
	count, err := s.leads.CountSince(ctx, from.TelegramID, since)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check lead rate for user %d: %w", from.TelegramID, err)
	}
	if count >= int64(s.rateLimit) {
		return nil, false, ErrRateLimited
	}

	user, err := s.users.GetOrCreate(ctx, from.TelegramID, from.Username, from.FirstName, from.LastName)
	if err != nil {
		return nil, false, err
	}

	lead = &models.Lead{
		UserID:          user.ID,
		TelegramUserID:  from.TelegramID,
		MessageText:     text,
		SourceContentID: sourceContentID,
		Phone:           phone,
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, false, err
	}

	adminChatID, configured, err := s.settings.AdminChatID(ctx)
	if err != nil {
		// The lead is already persisted; a routing failure must not undo the
		// intake. Report and fall through to persisted-only.
		log.Printf("[LeadIntake User:%d] Failed to read admin chat: %v", from.TelegramID, err)
		return lead, false, nil
	}
	if !configured {
		log.Printf("[LeadIntake User:%d] Admin chat not configured, lead %s persisted without routing", from.TelegramID, lead.ID.Hex())
		return lead, false, nil
	}

	if err := s.notifier.NotifyNewLead(ctx, adminChatID, lead, user); err != nil {
		log.Printf("[LeadIntake User:%d] Failed to forward lead %s: %v", from.TelegramID, lead.ID.Hex(), err)
		return lead, false, nil
	}
	return lead, true, nil
}

// Take claims a lead for an admin. Exactly one of any concurrent callers
// observes true.
func (s *Service) Take(ctx context.Context, leadID primitive.ObjectID, byTelegramID int64) (bool, error) {
	return s.leads.Take(ctx, leadID, byTelegramID)
}

// MarkAnswered flags a lead answered on behalf of an admin. Answering is not
// exclusive the way taking is.
func (s *Service) MarkAnswered(ctx context.Context, leadID primitive.ObjectID, byTelegramID int64) (bool, error) {
	return s.leads.MarkAnswered(ctx, leadID, byTelegramID)
}

// Get returns a lead by id.
func (s *Service) Get(ctx context.Context, leadID primitive.ObjectID) (*models.Lead, error) {
	return s.leads.GetByID(ctx, leadID)
}

// ListUnanswered returns unanswered leads, newest first.
func (s *Service) ListUnanswered(ctx context.Context, limit int) ([]models.Lead, error) {
	return s.leads.ListUnanswered(ctx, limit)
}

// ListRecent returns the most recent leads, newest first.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]models.Lead, error) {
	return s.leads.ListRecent(ctx, limit)
}

// CustomerByTelegramID returns the stored profile for a lead's sender, or nil
// if the user never completed an intake.
func (s *Service) CustomerByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	return s.users.GetByTelegramID(ctx, telegramID)
}
