// database/repository/event.go
package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/database"
	"github.com/sj7trunks/datestack/models"
)

// EventRepository defines the interface for event data access.
type EventRepository interface {
	ListByUserInRange(userID uint, from, to time.Time, includeHidden bool) ([]models.Event, error)
	ListAllByUser(userID uint) ([]models.Event, error)
	GetBySourceAndExternal(sourceID uint, externalID string) (*models.Event, error)
	Create(event *models.Event) error
	Update(event *models.Event) error
	DeleteStale(sourceID uint, windowStart, syncedBefore time.Time) (int64, error)
	DeleteBySource(sourceID uint) (int64, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
	CountBySource(userID uint) (map[uint]int64, error)
	Count() (int64, error)
}

// GormEventRepo implements EventRepository using GORM.
type GormEventRepo struct{}

// ListByUserInRange returns the user's events whose effective interval
// overlaps [from, to), ordered by start time. An event without an end time
// is one hour long, so one that started just before the range still counts.
// Events on hidden calendars are skipped unless includeHidden is set.
func (repo *GormEventRepo) ListByUserInRange(userID uint, from, to time.Time, includeHidden bool) ([]models.Event, error) {
	q := database.DB.
		Joins("JOIN calendar_sources ON calendar_sources.id = events.source_id").
		Where("calendar_sources.user_id = ?", userID).
		Where("events.start_time < ?", to).
		Where("events.end_time > ? OR (events.end_time IS NULL AND events.start_time > ?)",
			from, from.Add(-models.DefaultEventDuration)).
		Order("events.start_time")
	if !includeHidden {
		q = q.Joins("JOIN calendars ON calendars.id = events.calendar_id").
			Where("calendars.hidden = ?", false)
	}

	var events []models.Event
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListAllByUser returns every event belonging to a user, ordered by start time.
func (repo *GormEventRepo) ListAllByUser(userID uint) ([]models.Event, error) {
	var events []models.Event
	err := database.DB.
		Joins("JOIN calendar_sources ON calendar_sources.id = events.source_id").
		Where("calendar_sources.user_id = ?", userID).
		Order("events.start_time").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetBySourceAndExternal retrieves an event by its sync identity.
func (repo *GormEventRepo) GetBySourceAndExternal(sourceID uint, externalID string) (*models.Event, error) {
	var event models.Event
	err := database.DB.Where("source_id = ? AND external_id = ?", sourceID, externalID).First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("event %q not found: %w", externalID, err)
		}
		return nil, fmt.Errorf("failed to retrieve event %q: %w", externalID, err)
	}
	return &event, nil
}

// Create inserts a new event record.
func (repo *GormEventRepo) Create(event *models.Event) error {
	if err := database.DB.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// Update saves the updated event record.
func (repo *GormEventRepo) Update(event *models.Event) error {
	if err := database.DB.Save(event).Error; err != nil {
		return fmt.Errorf("failed to update event with id %d: %w", event.ID, err)
	}
	return nil
}

// DeleteStale removes events of a source that start inside the sync window
// but were not touched by the current run. Past events are left alone.
func (repo *GormEventRepo) DeleteStale(sourceID uint, windowStart, syncedBefore time.Time) (int64, error) {
	res := database.DB.
		Where("source_id = ? AND start_time >= ? AND synced_at < ?", sourceID, windowStart, syncedBefore).
		Delete(&models.Event{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete stale events: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteBySource removes every event belonging to a source.
func (repo *GormEventRepo) DeleteBySource(sourceID uint) (int64, error) {
	res := database.DB.Where("source_id = ?", sourceID).Delete(&models.Event{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete events of source %d: %w", sourceID, res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteOlderThan removes events across all users whose effective interval
// ended before the cutoff, enforcing the retention window.
func (repo *GormEventRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := database.DB.
		Where("(end_time IS NOT NULL AND end_time < ?) OR (end_time IS NULL AND start_time < ?)",
			cutoff, cutoff.Add(-models.DefaultEventDuration)).
		Delete(&models.Event{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete old events: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// CountBySource returns the number of events per source for a user.
func (repo *GormEventRepo) CountBySource(userID uint) (map[uint]int64, error) {
	var rows []struct {
		SourceID uint
		N        int64
	}
	err := database.DB.Model(&models.Event{}).
		Select("events.source_id, COUNT(*) AS n").
		Joins("JOIN calendar_sources ON calendar_sources.id = events.source_id").
		Where("calendar_sources.user_id = ?", userID).
		Group("events.source_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count events by source: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.SourceID] = r.N
	}
	return counts, nil
}

// Count returns the total number of events.
func (repo *GormEventRepo) Count() (int64, error) {
	var n int64
	if err := database.DB.Model(&models.Event{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}
