// models/agenda.go
package models

import (
	"time"
)

// AgendaUpdateInput carries a partial item update; nil fields are left
// unchanged.
type AgendaUpdateInput struct {
	Text      *string `json:"text"`
	Date      *string `json:"date"`
	Completed *bool   `json:"completed"`
	Position  *int    `json:"position"`
}

// AgendaItem is a dated to-do entry, separate from calendar events.
type AgendaItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_agenda_user_date" json:"-"`
	Date      string    `gorm:"index:idx_agenda_user_date" json:"date"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
