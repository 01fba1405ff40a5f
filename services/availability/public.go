package availability

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/utils"
)

// ErrNotShared is returned for unknown tokens and for disabled pages alike,
// so callers cannot probe whether a token exists.
var ErrNotShared = errors.New("availability page not found")

// resolveShared maps a share token to enabled settings. Unknown tokens and
// disabled pages come back as the same error.
func (s *DefaultAvailabilityService) resolveShared(token string) (*models.AvailabilitySettings, error) {
	settings, err := s.Repo.GetByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotShared
		}
		utils.GetLogger().Error("resolveShared: failed to resolve share token", zap.Error(err))
		return nil, fmt.Errorf("failed to load availability")
	}
	if !settings.Enabled {
		return nil, ErrNotShared
	}
	return settings, nil
}

// Public resolves a share token to the free/busy view for the configured
// day range. All-day events never mark slots busy.
func (s *DefaultAvailabilityService) Public(token string, from *time.Time) (*models.PublicAvailability, error) {
	settings, err := s.resolveShared(token)
	if err != nil {
		return nil, err
	}

	owner, err := s.Users.GetByID(settings.UserID)
	if err != nil {
		utils.GetLogger().Error("Public: failed to load owner", zap.Error(err))
		return nil, fmt.Errorf("failed to load availability")
	}

	loc := config.Location()
	var start time.Time
	if from != nil {
		start = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	} else {
		now := time.Now().In(loc)
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	}
	end := start.AddDate(0, 0, settings.DaysAhead)

	events, err := s.Events.ListByUserInRange(settings.UserID, start, end, false)
	if err != nil {
		utils.GetLogger().Error("Public: failed to load events", zap.Error(err))
		return nil, fmt.Errorf("failed to load availability")
	}

	timed := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.AllDay {
			continue
		}
		timed = append(timed, e)
	}

	utils.AvailabilityLookupsTotal.Inc()

	return &models.PublicAvailability{
		Name:      owner.Name,
		StartHour: settings.StartHour,
		EndHour:   settings.EndHour,
		Days:      GenerateSlots(settings.StartHour, settings.EndHour, start, settings.DaysAhead, timed),
	}, nil
}
