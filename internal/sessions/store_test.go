package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStore(t *testing.T) {
	const userID = int64(777)

	t.Run("BeginAndGet", func(t *testing.T) {
		store := NewStore(time.Minute)
		store.Begin(userID, StateAwaitingScheduleTime, "")

		session := store.Get(userID)
		assert.Equal(t, StateAwaitingScheduleTime, session.State)
	})

	t.Run("DataSurvivesRoundTrip", func(t *testing.T) {
		store := NewStore(time.Minute)
		store.Begin(userID, StateAwaitingBindContent, "665f1e6a0000000000000001")

		session := store.Get(userID)
		assert.Equal(t, StateAwaitingBindContent, session.State)
		assert.Equal(t, "665f1e6a0000000000000001", session.Data)
	})

	t.Run("UnknownUserIsIdle", func(t *testing.T) {
		store := NewStore(time.Minute)

		session := store.Get(userID)
		assert.Equal(t, StateIdle, session.State)
		assert.Empty(t, session.Data)
	})

	t.Run("BeginReplacesExistingFlow", func(t *testing.T) {
		store := NewStore(time.Minute)
		store.Begin(userID, StateAwaitingContent, "")
		store.Begin(userID, StateAwaitingBanner, "")

		session := store.Get(userID)
		assert.Equal(t, StateAwaitingBanner, session.State)
	})

	t.Run("ClearEndsFlow", func(t *testing.T) {
		store := NewStore(time.Minute)
		store.Begin(userID, StateAwaitingContent, "")
		store.Clear(userID)

		session := store.Get(userID)
		assert.Equal(t, StateIdle, session.State)
	})

	t.Run("ExpiredSessionReadsAsIdle", func(t *testing.T) {
		store := NewStore(time.Minute)

		current := time.Now()
		store.now = func() time.Time { return current }
		store.Begin(userID, StateAwaitingScheduleTime, "")

		current = current.Add(time.Minute + time.Second)
		session := store.Get(userID)
		assert.Equal(t, StateIdle, session.State)

		// The expired entry is dropped, not resurrected by a clock rollback.
		current = current.Add(-2 * time.Minute)
		session = store.Get(userID)
		assert.Equal(t, StateIdle, session.State)
	})

	t.Run("ZeroTTLFallsBackToDefault", func(t *testing.T) {
		store := NewStore(0)
		assert.Equal(t, DefaultTTL, store.ttl)
	})
}
