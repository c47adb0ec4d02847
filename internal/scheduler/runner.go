// Package scheduler owns the trigger registry: each schedule row becomes a
// daily cron entry that fires the posting dispatcher. A failed or panicking
// fire is reported and swallowed so it can never desynchronize the registry.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"promobot/internal/database"
	"promobot/internal/database/models"
)

// fireTimeout bounds a single dispatch cycle.
const fireTimeout = 30 * time.Second

// FireHandler consumes fire events. Implemented by the posting dispatcher.
type FireHandler interface {
	OnFire(ctx context.Context, scheduleID primitive.ObjectID)
}

// Runner maps schedule ids to cron entries firing once per day at the
// schedule's wall-clock time.
type Runner struct {
	cron    *cron.Cron
	handler FireHandler

	mu      sync.Mutex
	entries map[primitive.ObjectID]cron.EntryID
}

// NewRunner creates a Runner firing in the given timezone.
func NewRunner(handler FireHandler, timezone string) (*Runner, error) {
	if handler == nil {
		return nil, fmt.Errorf("fire handler cannot be nil")
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", timezone, err)
	}
	return &Runner{
		cron:    cron.New(cron.WithLocation(loc)),
		handler: handler,
		entries: make(map[primitive.ObjectID]cron.EntryID),
	}, nil
}

// Register adds (or replaces) the cron entry for a schedule. timeOfDay must be
// the normalized "HH:MM" form.
func (r *Runner) Register(scheduleID primitive.ObjectID, timeOfDay string) error {
	hour, minute, err := models.SplitTimeOfDay(timeOfDay)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if entryID, ok := r.entries[scheduleID]; ok {
		r.cron.Remove(entryID)
	}

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	entryID, err := r.cron.AddFunc(spec, func() { r.fire(scheduleID) })
	if err != nil {
		return fmt.Errorf("failed to add cron entry for schedule %s: %w", scheduleID.Hex(), err)
	}
	r.entries[scheduleID] = entryID

	log.Printf("[Scheduler] Registered schedule %s at %s", scheduleID.Hex(), timeOfDay)
	return nil
}

// Remove drops the cron entry for a schedule. Returns false if the schedule
// was not registered.
func (r *Runner) Remove(scheduleID primitive.ObjectID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entryID, ok := r.entries[scheduleID]
	if !ok {
		return false
	}
	r.cron.Remove(entryID)
	delete(r.entries, scheduleID)

	log.Printf("[Scheduler] Removed schedule %s", scheduleID.Hex())
	return true
}

// Sync registers every enabled schedule from the repository. Called once at
// startup so restarts rebuild the registry from persisted state.
func (r *Runner) Sync(ctx context.Context, schedules database.ScheduleRepository) error {
	list, err := schedules.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	registered := 0
	for _, schedule := range list {
		if !schedule.Enabled {
			continue
		}
		if err := r.Register(schedule.ID, schedule.TimeOfDay); err != nil {
			return err
		}
		registered++
	}
	log.Printf("[Scheduler] Synced %d schedule(s)", registered)
	return nil
}

// Start begins firing registered entries.
func (r *Runner) Start() {
	r.cron.Start()
	log.Println("[Scheduler] Started")
}

// Stop stops the cron loop and waits for any in-flight fire to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
	log.Println("[Scheduler] Stopped")
}

// fire runs one dispatch cycle for a schedule. Panics are recovered and
// reported; the cron entry stays registered regardless of the outcome.
func (r *Runner) fire(scheduleID primitive.ObjectID) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[Scheduler] PANIC in fire for schedule %s: %v\n%s", scheduleID.Hex(), rec, debug.Stack())
			sentry.CurrentHub().Recover(rec)
			sentry.Flush(time.Second * 2)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), fireTimeout)
	defer cancel()

	r.handler.OnFire(ctx, scheduleID)
}
