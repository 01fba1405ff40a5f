// database/repository/calendar.go
package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/database"
	"github.com/sj7trunks/datestack/models"
)

// CalendarRepository defines the interface for calendar data access.
// Calendars hang off sources, so user scoping always goes through the
// calendar_sources table.
type CalendarRepository interface {
	ListByUser(userID uint) ([]models.Calendar, error)
	GetByUserAndID(userID, id uint) (*models.Calendar, error)
	GetBySourceAndName(sourceID uint, name string) (*models.Calendar, error)
	Create(cal *models.Calendar) error
	Update(cal *models.Calendar) error
	DeleteBySource(sourceID uint) error
	CountByUser(userID uint) (int64, error)
}

// GormCalendarRepo implements CalendarRepository using GORM.
type GormCalendarRepo struct{}

// ListByUser returns all calendars across the user's sources.
func (repo *GormCalendarRepo) ListByUser(userID uint) ([]models.Calendar, error) {
	var cals []models.Calendar
	err := database.DB.
		Joins("JOIN calendar_sources ON calendar_sources.id = calendars.source_id").
		Where("calendar_sources.user_id = ?", userID).
		Order("calendars.name").
		Find(&cals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	return cals, nil
}

// GetByUserAndID retrieves a single calendar owned by the given user.
func (repo *GormCalendarRepo) GetByUserAndID(userID, id uint) (*models.Calendar, error) {
	var cal models.Calendar
	err := database.DB.
		Joins("JOIN calendar_sources ON calendar_sources.id = calendars.source_id").
		Where("calendar_sources.user_id = ? AND calendars.id = ?", userID, id).
		First(&cal).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("calendar with id %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to retrieve calendar with id %d: %w", id, err)
	}
	return &cal, nil
}

// GetBySourceAndName retrieves a calendar by its display name within a source.
func (repo *GormCalendarRepo) GetBySourceAndName(sourceID uint, name string) (*models.Calendar, error) {
	var cal models.Calendar
	err := database.DB.Where("source_id = ? AND name = ?", sourceID, name).First(&cal).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("calendar %q not found: %w", name, err)
		}
		return nil, fmt.Errorf("failed to retrieve calendar %q: %w", name, err)
	}
	return &cal, nil
}

// Create inserts a new calendar record.
func (repo *GormCalendarRepo) Create(cal *models.Calendar) error {
	if err := database.DB.Create(cal).Error; err != nil {
		return fmt.Errorf("failed to create calendar: %w", err)
	}
	return nil
}

// Update saves the updated calendar record.
func (repo *GormCalendarRepo) Update(cal *models.Calendar) error {
	if err := database.DB.Save(cal).Error; err != nil {
		return fmt.Errorf("failed to update calendar with id %d: %w", cal.ID, err)
	}
	return nil
}

// DeleteBySource removes every calendar belonging to a source.
func (repo *GormCalendarRepo) DeleteBySource(sourceID uint) error {
	if err := database.DB.Where("source_id = ?", sourceID).Delete(&models.Calendar{}).Error; err != nil {
		return fmt.Errorf("failed to delete calendars of source %d: %w", sourceID, err)
	}
	return nil
}

// CountByUser returns how many calendars the user has across all sources,
// used for palette color rotation.
func (repo *GormCalendarRepo) CountByUser(userID uint) (int64, error) {
	var n int64
	err := database.DB.Model(&models.Calendar{}).
		Joins("JOIN calendar_sources ON calendar_sources.id = calendars.source_id").
		Where("calendar_sources.user_id = ?", userID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count calendars: %w", err)
	}
	return n, nil
}
