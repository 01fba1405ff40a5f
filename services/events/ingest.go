package events

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/utils"
)

// fallbackCalendar is used for events pushed without a calendar name.
const fallbackCalendar = "Calendar"

// Ingest upserts the pushed events into the named source. Events that were
// present in earlier runs but are missing from this one are deleted, limited
// to events from today onward so history is preserved.
func (s *DefaultEventService) Ingest(userID uint, req models.SyncRequest) (*models.SyncResult, error) {
	name := strings.TrimSpace(req.SourceName)
	if name == "" {
		return nil, fmt.Errorf("source_name is required")
	}

	src, err := s.Sources.GetOrCreate(userID, name, models.SourceKindPush)
	if err != nil {
		utils.GetLogger().Error("Ingest: failed to resolve source", zap.Error(err))
		return nil, fmt.Errorf("sync failed, please try again")
	}
	if src.Kind != models.SourceKindPush {
		return nil, fmt.Errorf("source %q is an ics subscription and cannot receive pushed events", name)
	}

	loc := config.Location()
	runStart := time.Now()
	calendars := make(map[string]*models.Calendar)

	synced, skipped := 0, 0
	for _, in := range req.Events {
		start, err := parseClientTime(in.StartTime, loc)
		if err != nil {
			skipped++
			continue
		}

		var end *time.Time
		if in.EndTime != nil && strings.TrimSpace(*in.EndTime) != "" {
			t, err := parseClientTime(*in.EndTime, loc)
			if err == nil && t.After(start) {
				end = &t
			}
		}

		// All-day entries cover their whole calendar day.
		if in.AllDay {
			start = startOfDay(start)
			if end == nil {
				e := start.AddDate(0, 0, 1)
				end = &e
			}
		}

		calName := fallbackCalendar
		if in.CalendarName != nil && strings.TrimSpace(*in.CalendarName) != "" {
			calName = strings.TrimSpace(*in.CalendarName)
		}
		cal, err := s.calendarFor(userID, src.ID, calName, calendars)
		if err != nil {
			utils.GetLogger().Error("Ingest: failed to resolve calendar", zap.String("calendar", calName), zap.Error(err))
			return nil, fmt.Errorf("sync failed, please try again")
		}

		title := strings.TrimSpace(in.Title)
		if title == "" {
			title = "Untitled"
		}

		extID := ""
		if in.ExternalID != nil {
			extID = strings.TrimSpace(*in.ExternalID)
		}
		if extID == "" {
			extID = surrogateID(title, start)
		}

		err = s.upsertEvent(&models.Event{
			SourceID:   src.ID,
			CalendarID: cal.ID,
			ExternalID: extID,
			Title:      title,
			StartTime:  start,
			EndTime:    end,
			AllDay:     in.AllDay,
			Location:   deref(in.Location),
			Notes:      deref(in.Notes),
			SyncedAt:   runStart,
		})
		if err != nil {
			utils.GetLogger().Error("Ingest: failed to upsert event", zap.String("external_id", extID), zap.Error(err))
			return nil, fmt.Errorf("sync failed, please try again")
		}
		synced++
	}

	removed, err := s.Events.DeleteStale(src.ID, startOfDay(runStart.In(loc)), runStart)
	if err != nil {
		utils.GetLogger().Error("Ingest: failed to sweep stale events", zap.Error(err))
		return nil, fmt.Errorf("sync failed, please try again")
	}

	now := time.Now()
	src.LastSyncedAt = &now
	src.LastError = ""
	if err := s.Sources.Update(src); err != nil {
		utils.GetLogger().Error("Ingest: failed to update source", zap.Error(err))
	}

	utils.EventsSyncedTotal.Add(float64(synced))
	if skipped > 0 {
		utils.GetLogger().Warn("Ingest: skipped events with unparseable times",
			zap.String("source", src.Name), zap.Int("skipped", skipped))
	}

	return &models.SyncResult{
		EventsSynced:  synced,
		EventsDeleted: int(removed),
		SourceID:      src.ID,
	}, nil
}

// upsertEvent creates the event or updates the existing row sharing its sync
// identity.
func (s *DefaultEventService) upsertEvent(event *models.Event) error {
	existing, err := s.Events.GetBySourceAndExternal(event.SourceID, event.ExternalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.Events.Create(event)
		}
		return err
	}

	existing.CalendarID = event.CalendarID
	existing.Title = event.Title
	existing.StartTime = event.StartTime
	existing.EndTime = event.EndTime
	existing.AllDay = event.AllDay
	existing.Location = event.Location
	existing.Notes = event.Notes
	existing.SyncedAt = event.SyncedAt
	return s.Events.Update(existing)
}

// calendarFor returns the calendar row for a name within a source, creating
// it with the next palette color when it is first seen. The rotation counts
// calendars across all of the user's sources so colors stay distinct.
func (s *DefaultEventService) calendarFor(userID, sourceID uint, name string, cache map[string]*models.Calendar) (*models.Calendar, error) {
	if cal, ok := cache[name]; ok {
		return cal, nil
	}

	cal, err := s.Calendars.GetBySourceAndName(sourceID, name)
	if err == nil {
		cache[name] = cal
		return cal, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	count, err := s.Calendars.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	cal = &models.Calendar{
		SourceID: sourceID,
		Name:     name,
		Color:    utils.PickColor(int(count)),
	}
	if err := s.Calendars.Create(cal); err != nil {
		return nil, err
	}
	cache[name] = cal
	return cal, nil
}

// surrogateID builds a stable identity for events the client exported
// without a UID.
func surrogateID(title string, start time.Time) string {
	return utils.HashToken(title + "|" + start.UTC().Format(time.RFC3339))
}

// parseClientTime accepts the timestamp shapes the sync client emits: full
// RFC 3339, a naive ISO datetime interpreted in the server timezone, or a
// bare date.
func parseClientTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time value %q", value)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
