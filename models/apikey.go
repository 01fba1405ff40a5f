// models/apikey.go
package models

import (
	"time"
)

// APIKey is a long-lived credential for the sync client. The raw key is shown
// once at creation; only its SHA-256 hash is persisted.
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index" json:"-"`
	Name       string     `json:"name"`
	KeyHash    string     `gorm:"uniqueIndex" json:"-"`
	Prefix     string     `json:"prefix"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
