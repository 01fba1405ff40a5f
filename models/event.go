// models/event.go
package models

import (
	"time"
)

// DefaultEventDuration is assumed for events without an end time when testing
// for overlap against availability slots.
const DefaultEventDuration = time.Hour

// Event is a single calendar entry synced from a source. Ownership follows
// the source, so there is no user column here.
type Event struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	SourceID   uint       `gorm:"index:idx_events_source_external,unique" json:"source_id"`
	CalendarID uint       `gorm:"index" json:"calendar_id"`
	ExternalID string     `gorm:"index:idx_events_source_external,unique" json:"external_id"`
	Title      string     `json:"title"`
	StartTime  time.Time  `gorm:"index" json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	AllDay     bool       `json:"all_day"`
	Location   string     `json:"location,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	SyncedAt   time.Time  `gorm:"index" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Joined in for listings, not stored.
	CalendarName  string `gorm:"-" json:"calendar_name,omitempty"`
	CalendarColor string `gorm:"-" json:"calendar_color,omitempty"`
}

// EffectiveEnd returns the end time used for overlap checks. Events without
// an explicit end are treated as one hour long.
func (e *Event) EffectiveEnd() time.Time {
	if e.EndTime != nil {
		return *e.EndTime
	}
	return e.StartTime.Add(DefaultEventDuration)
}
