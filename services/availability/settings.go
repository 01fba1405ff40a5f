package availability

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/utils"
)

// GetSettings returns the user's availability settings, creating the row
// with defaults on first access.
func (s *DefaultAvailabilityService) GetSettings(userID uint) (*models.AvailabilitySettings, error) {
	settings, err := s.Repo.GetByUser(userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.GetLogger().Error("GetSettings: failed to fetch settings", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch availability settings")
	}

	settings = &models.AvailabilitySettings{
		UserID:     userID,
		Enabled:    false,
		StartHour:  models.DefaultStartHour,
		EndHour:    models.DefaultEndHour,
		DaysAhead:  models.DefaultDaysAhead,
		ShareToken: utils.GenerateShareToken(),
	}
	if err := s.Repo.Create(settings); err != nil {
		utils.GetLogger().Error("GetSettings: failed to create settings", zap.Error(err))
		return nil, fmt.Errorf("failed to create availability settings")
	}
	return settings, nil
}

// UpdateSettings applies the non-nil fields of the input after validation.
func (s *DefaultAvailabilityService) UpdateSettings(userID uint, input models.AvailabilityUpdateInput) (*models.AvailabilitySettings, error) {
	settings, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	if input.Enabled != nil {
		settings.Enabled = *input.Enabled
	}
	if input.StartHour != nil {
		settings.StartHour = *input.StartHour
	}
	if input.EndHour != nil {
		settings.EndHour = *input.EndHour
	}
	if input.DaysAhead != nil {
		settings.DaysAhead = *input.DaysAhead
	}

	if settings.StartHour < 0 || settings.StartHour > 23 {
		return nil, fmt.Errorf("start_hour must be between 0 and 23")
	}
	if settings.EndHour < 1 || settings.EndHour > 23 {
		return nil, fmt.Errorf("end_hour must be between 1 and 23")
	}
	if settings.StartHour >= settings.EndHour {
		return nil, fmt.Errorf("start_hour must be before end_hour")
	}
	if settings.DaysAhead < 1 || settings.DaysAhead > 90 {
		return nil, fmt.Errorf("days_ahead must be between 1 and 90")
	}

	if err := s.Repo.Update(settings); err != nil {
		utils.GetLogger().Error("UpdateSettings: failed to save settings", zap.Error(err))
		return nil, fmt.Errorf("failed to update availability settings")
	}
	return settings, nil
}

// RotateShareToken replaces the share token so previously shared links stop
// working.
func (s *DefaultAvailabilityService) RotateShareToken(userID uint) (*models.AvailabilitySettings, error) {
	settings, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	settings.ShareToken = utils.GenerateShareToken()
	if err := s.Repo.Update(settings); err != nil {
		utils.GetLogger().Error("RotateShareToken: failed to save settings", zap.Error(err))
		return nil, fmt.Errorf("failed to rotate share token")
	}
	return settings, nil
}
