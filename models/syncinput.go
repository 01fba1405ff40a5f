// models/syncinput.go
package models

// EventInput is one event as sent by the sync client. Times arrive as ISO
// strings without zone markers and are interpreted in the server timezone.
type EventInput struct {
	Title        string  `json:"title"`
	StartTime    string  `json:"start_time" binding:"required"`
	EndTime      *string `json:"end_time"`
	Location     *string `json:"location"`
	Notes        *string `json:"notes"`
	AllDay       bool    `json:"all_day"`
	CalendarName *string `json:"calendar_name"`
	ExternalID   *string `json:"external_id"`
}

// SyncRequest is the payload of a push sync.
type SyncRequest struct {
	SourceName string       `json:"source_name" binding:"required"`
	Events     []EventInput `json:"events"`
}

// SyncResult summarizes what a sync run changed.
type SyncResult struct {
	EventsSynced  int  `json:"events_synced"`
	EventsDeleted int  `json:"events_deleted"`
	SourceID      uint `json:"source_id"`
}
