// models/calendar.go
package models

import (
	"time"
)

// Calendar mirrors a calendar name seen during sync, carrying display
// settings. Rows are created lazily the first time a name appears on a
// source.
type Calendar struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SourceID  uint      `gorm:"index:idx_calendars_source_name,unique" json:"source_id"`
	Name      string    `gorm:"index:idx_calendars_source_name,unique" json:"name"`
	Color     string    `json:"color"`
	Hidden    bool      `json:"hidden"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// SourceName is joined in for listings, not stored.
	SourceName string `gorm:"-" json:"source_name,omitempty"`
}

// CalendarUpdateInput carries a partial calendar settings change.
type CalendarUpdateInput struct {
	Color  *string `json:"color"`
	Hidden *bool   `json:"hidden"`
}
