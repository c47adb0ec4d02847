package models

import "time"

// Setting is a single key/value configuration entry. Settings are upsert-only;
// an absent key resolves to its documented default at the typed accessor layer.
type Setting struct {
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}
