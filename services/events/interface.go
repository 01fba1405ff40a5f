package events

import (
	"context"
	"errors"
	"time"

	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/models"
)

var (
	ErrSourceNotFound   = errors.New("source not found")
	ErrCalendarNotFound = errors.New("calendar not found")
)

// EventService ingests events from sync clients and ICS subscriptions and
// serves the stored timeline.
type EventService interface {
	// Ingest applies one push sync run from a client.
	Ingest(userID uint, req models.SyncRequest) (*models.SyncResult, error)

	// List returns events overlapping [from, to) ordered by start time,
	// annotated with calendar name and color.
	List(userID uint, from, to time.Time, includeHidden bool) ([]models.Event, error)

	// ListSources returns the user's sources with event counts.
	ListSources(userID uint) ([]models.CalendarSource, error)

	// CreateICSSource registers an ICS subscription and refreshes it once.
	CreateICSSource(ctx context.Context, userID uint, name, url string) (*models.CalendarSource, error)

	// DeleteSource removes a source together with its calendars and events.
	DeleteSource(userID, sourceID uint) error

	// RefreshSource re-fetches one ICS subscription now.
	RefreshSource(ctx context.Context, userID, sourceID uint) (*models.SyncResult, error)

	// RefreshAllICS re-fetches every ICS subscription on the server.
	RefreshAllICS(ctx context.Context)

	// ListCalendars returns the user's calendars with their source names.
	ListCalendars(userID uint) ([]models.Calendar, error)

	// UpdateCalendar changes a calendar's display settings.
	UpdateCalendar(userID, calendarID uint, input models.CalendarUpdateInput) (*models.Calendar, error)
}

// DefaultEventService is the production implementation.
type DefaultEventService struct {
	Events    repository.EventRepository
	Sources   repository.SourceRepository
	Calendars repository.CalendarRepository
}
