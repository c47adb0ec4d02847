package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Schedule is a daily posting slot. TimeOfDay is always stored in the
// normalized zero-padded "HH:MM" form, unique across the collection.
type Schedule struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	TimeOfDay string             `bson:"time_of_day"`
	Enabled   bool               `bson:"enabled"`
	CreatedAt time.Time          `bson:"created_at"`
}

// ScheduleBinding assigns a content item to a schedule slot. A schedule has at
// most one binding at a time; re-binding replaces the previous assignment.
type ScheduleBinding struct {
	ScheduleID primitive.ObjectID `bson:"schedule_id"`
	ContentID  primitive.ObjectID `bson:"content_id"`
	BoundAt    time.Time          `bson:"bound_at"`
}

var timeOfDayPattern = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)

// ParseTimeOfDay validates a wall-clock time string and returns its normalized
// zero-padded "HH:MM" form. It accepts "H:MM" and "HH:MM" and rejects
// out-of-range hours or minutes.
func ParseTimeOfDay(s string) (string, error) {
	m := timeOfDayPattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("invalid time of day %q, expected HH:MM", s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// SplitTimeOfDay returns the hour and minute of a normalized "HH:MM" string.
func SplitTimeOfDay(normalized string) (hour, minute int, err error) {
	m := timeOfDayPattern.FindStringSubmatch(normalized)
	if m == nil {
		return 0, 0, fmt.Errorf("malformed time of day %q", normalized)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return hour, minute, nil
}
