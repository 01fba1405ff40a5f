// database/repository/availability.go
package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/database"
	"github.com/sj7trunks/datestack/models"
)

// AvailabilityRepository defines the interface for availability settings
// data access.
type AvailabilityRepository interface {
	GetByUser(userID uint) (*models.AvailabilitySettings, error)
	GetByToken(token string) (*models.AvailabilitySettings, error)
	Create(settings *models.AvailabilitySettings) error
	Update(settings *models.AvailabilitySettings) error
}

// GormAvailabilityRepo implements AvailabilityRepository using GORM.
type GormAvailabilityRepo struct{}

// GetByUser retrieves the settings row for a user.
func (repo *GormAvailabilityRepo) GetByUser(userID uint) (*models.AvailabilitySettings, error) {
	var settings models.AvailabilitySettings
	err := database.DB.First(&settings, "user_id = ?", userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("availability settings for user %d not found: %w", userID, err)
		}
		return nil, fmt.Errorf("failed to retrieve availability settings: %w", err)
	}
	return &settings, nil
}

// GetByToken retrieves settings by their share token.
func (repo *GormAvailabilityRepo) GetByToken(token string) (*models.AvailabilitySettings, error) {
	var settings models.AvailabilitySettings
	err := database.DB.First(&settings, "share_token = ?", token).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("availability settings not found: %w", err)
		}
		return nil, fmt.Errorf("failed to retrieve availability settings: %w", err)
	}
	return &settings, nil
}

// Create inserts a new settings row.
func (repo *GormAvailabilityRepo) Create(settings *models.AvailabilitySettings) error {
	if err := database.DB.Create(settings).Error; err != nil {
		return fmt.Errorf("failed to create availability settings: %w", err)
	}
	return nil
}

// Update saves the updated settings row.
func (repo *GormAvailabilityRepo) Update(settings *models.AvailabilitySettings) error {
	if err := database.DB.Save(settings).Error; err != nil {
		return fmt.Errorf("failed to update availability settings: %w", err)
	}
	return nil
}
