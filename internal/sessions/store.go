// Package sessions holds short-lived per-admin state for multi-step command
// flows (awaiting a schedule time, awaiting content, selecting a bind target).
// Entries expire after a TTL so an abandoned flow cannot wedge an admin, and
// the store is an explicit dependency rather than a package-level map.
package sessions

import (
	"sync"
	"time"
)

// DefaultTTL is how long an idle flow survives before it is discarded.
const DefaultTTL = 10 * time.Minute

// State identifies which multi-step flow a user is currently in.
type State string

const (
	// StateIdle is the zero state: no flow in progress.
	StateIdle State = ""
	// StateAwaitingContent means the bot is waiting for the admin to send the
	// photo/video/text for a new content item.
	StateAwaitingContent State = "awaiting_content"
	// StateAwaitingScheduleTime means the bot is waiting for an HH:MM reply.
	StateAwaitingScheduleTime State = "awaiting_schedule_time"
	// StateAwaitingBindContent means the bot is waiting for the admin to pick
	// a content item to bind to the schedule stored in the session data.
	StateAwaitingBindContent State = "awaiting_bind_content"
	// StateAwaitingTargetChat means the bot is waiting for a target chat id.
	StateAwaitingTargetChat State = "awaiting_target_chat"
	// StateAwaitingAdminChat means the bot is waiting for an admin chat id.
	StateAwaitingAdminChat State = "awaiting_admin_chat"
	// StateAwaitingBanner means the bot is waiting for a banner photo.
	StateAwaitingBanner State = "awaiting_banner"
	// StateLeadSource marks a user who arrived through a published post's
	// deep link; Data holds the content id their next message is attributed to.
	StateLeadSource State = "lead_source"
)

// Session is one user's in-progress flow. Data carries flow-specific context,
// e.g. the schedule id a bind selection applies to.
type Session struct {
	State     State
	Data      string
	ExpiresAt time.Time
}

// Store is a mutex-guarded TTL map of userID to session.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a session store with the given TTL; ttl <= 0 falls back to
// DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[int64]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Begin starts (or replaces) a flow for the user.
func (s *Store) Begin(userID int64, state State, data string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = Session{
		State:     state,
		Data:      data,
		ExpiresAt: s.now().Add(s.ttl),
	}
}

// Get returns the user's current session. An expired session reads as idle
// and is dropped on access; no background janitor is needed at this scale.
func (s *Store) Get(userID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return Session{State: StateIdle}
	}
	if s.now().After(session.ExpiresAt) {
		delete(s.sessions, userID)
		return Session{State: StateIdle}
	}
	return session
}

// Clear ends the user's flow.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
