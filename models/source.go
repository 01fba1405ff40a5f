// models/source.go
package models

import (
	"time"
)

// Source kinds. Push sources receive events from the sync client; ics sources
// are subscription URLs refreshed by the server itself.
const (
	SourceKindPush = "push"
	SourceKindICS  = "ics"
)

// CalendarSource groups synced events by where they came from, typically one
// per machine running the sync client or one per ICS subscription.
type CalendarSource struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index:idx_sources_user_name,unique" json:"-"`
	Name         string     `gorm:"index:idx_sources_user_name,unique" json:"name"`
	Kind         string     `gorm:"default:push" json:"kind"`
	URL          string     `json:"url,omitempty"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
	EventCount   int64      `gorm:"-" json:"event_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
