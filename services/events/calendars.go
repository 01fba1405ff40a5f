package events

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/utils"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ListCalendars returns the user's calendars annotated with their source
// names.
func (s *DefaultEventService) ListCalendars(userID uint) ([]models.Calendar, error) {
	cals, err := s.Calendars.ListByUser(userID)
	if err != nil {
		utils.GetLogger().Error("ListCalendars: failed to fetch calendars", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch calendars")
	}

	sources, err := s.Sources.ListByUser(userID)
	if err != nil {
		utils.GetLogger().Error("ListCalendars: failed to fetch sources", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch calendars")
	}
	names := make(map[uint]string, len(sources))
	for _, src := range sources {
		names[src.ID] = src.Name
	}
	for i := range cals {
		cals[i].SourceName = names[cals[i].SourceID]
	}
	return cals, nil
}

// UpdateCalendar changes a calendar's color or visibility.
func (s *DefaultEventService) UpdateCalendar(userID, calendarID uint, input models.CalendarUpdateInput) (*models.Calendar, error) {
	cal, err := s.Calendars.GetByUserAndID(userID, calendarID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCalendarNotFound
		}
		utils.GetLogger().Error("UpdateCalendar: failed to fetch calendar", zap.Error(err))
		return nil, fmt.Errorf("failed to update calendar")
	}

	if input.Color != nil {
		color := strings.TrimSpace(*input.Color)
		if !hexColor.MatchString(color) {
			return nil, fmt.Errorf("color must be a #RRGGBB hex value")
		}
		cal.Color = color
	}
	if input.Hidden != nil {
		cal.Hidden = *input.Hidden
	}

	if err := s.Calendars.Update(cal); err != nil {
		utils.GetLogger().Error("UpdateCalendar: failed to save calendar", zap.Error(err))
		return nil, fmt.Errorf("failed to update calendar")
	}
	return cal, nil
}
