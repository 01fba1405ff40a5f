package events

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/utils"
)

// List returns the user's events overlapping [from, to), annotated with
// their calendar name and color.
func (s *DefaultEventService) List(userID uint, from, to time.Time, includeHidden bool) ([]models.Event, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("end must be after start")
	}

	events, err := s.Events.ListByUserInRange(userID, from, to, includeHidden)
	if err != nil {
		utils.GetLogger().Error("List: failed to fetch events", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch events")
	}

	cals, err := s.Calendars.ListByUser(userID)
	if err != nil {
		utils.GetLogger().Error("List: failed to fetch calendars", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch events")
	}
	byID := make(map[uint]models.Calendar, len(cals))
	for _, c := range cals {
		byID[c.ID] = c
	}
	for i := range events {
		if c, ok := byID[events[i].CalendarID]; ok {
			events[i].CalendarName = c.Name
			events[i].CalendarColor = c.Color
		}
	}
	return events, nil
}
