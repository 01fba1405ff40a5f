// models/backup.go
package models

import (
	"time"
)

// BackupVersion is bumped when the dump layout changes incompatibly.
const BackupVersion = 1

// The regular JSON shapes hide credentials and owner columns. The Backup*
// wrappers shadow those fields so a dump round-trips completely.

// BackupUser carries the password hash so restored accounts can log in.
type BackupUser struct {
	User
	PasswordHash string `json:"password_hash"`
}

// BackupAPIKey carries the key hash and owner of an API key.
type BackupAPIKey struct {
	APIKey
	UserID  uint   `json:"user_id"`
	KeyHash string `json:"key_hash"`
}

// BackupSource carries the owner of a calendar source.
type BackupSource struct {
	CalendarSource
	UserID uint `json:"user_id"`
}

// BackupEvent carries the sync stamp of an event.
type BackupEvent struct {
	Event
	SyncedAt time.Time `json:"synced_at"`
}

// BackupAgendaItem carries the owner of an agenda item.
type BackupAgendaItem struct {
	AgendaItem
	UserID uint `json:"user_id"`
}

// BackupSettings carries the row identity of availability settings.
type BackupSettings struct {
	AvailabilitySettings
	ID     uint `json:"id"`
	UserID uint `json:"user_id"`
}

// Backup is a versioned dump of every table, produced by the admin export
// endpoint and accepted back by restore.
type Backup struct {
	Version   int                `json:"version"`
	CreatedAt time.Time          `json:"created_at"`
	Users     []BackupUser       `json:"users"`
	APIKeys   []BackupAPIKey     `json:"api_keys"`
	Sources   []BackupSource     `json:"sources"`
	Calendars []Calendar         `json:"calendars"`
	Events    []BackupEvent      `json:"events"`
	Agenda    []BackupAgendaItem `json:"agenda"`
	Settings  []BackupSettings   `json:"availability_settings"`
}
