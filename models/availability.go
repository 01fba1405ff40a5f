// models/availability.go
package models

import (
	"time"
)

// Defaults applied when availability settings are created lazily.
const (
	DefaultStartHour = 9
	DefaultEndHour   = 17
	DefaultDaysAhead = 14
)

// AvailabilitySettings configures the public free/busy page for one user.
// Created on first access, never deleted, only disabled.
type AvailabilitySettings struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	UserID     uint      `gorm:"uniqueIndex" json:"-"`
	Enabled    bool      `json:"enabled"`
	StartHour  int       `json:"start_hour"`
	EndHour    int       `json:"end_hour"`
	DaysAhead  int       `json:"days_ahead"`
	ShareToken string    `gorm:"uniqueIndex" json:"share_token"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// AvailabilityUpdateInput carries a partial settings update; nil fields are
// left unchanged.
type AvailabilityUpdateInput struct {
	Enabled   *bool `json:"enabled"`
	StartHour *int  `json:"start_hour"`
	EndHour   *int  `json:"end_hour"`
	DaysAhead *int  `json:"days_ahead"`
}

// SlotStatus marks a slot as open or taken.
type SlotStatus string

const (
	SlotFree SlotStatus = "free"
	SlotBusy SlotStatus = "busy"
)

// TimeSlot is a 30-minute free/busy bucket. Never persisted.
type TimeSlot struct {
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Status SlotStatus `json:"status"`
}

// DayAvailability holds the ordered slots of one day.
type DayAvailability struct {
	Date  string     `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

// PublicAvailability is the response body of the share endpoint.
type PublicAvailability struct {
	Name      string            `json:"name,omitempty"`
	StartHour int               `json:"start_hour"`
	EndHour   int               `json:"end_hour"`
	Days      []DayAvailability `json:"days"`
}
