// database/repository/source.go
package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/database"
	"github.com/sj7trunks/datestack/models"
)

// SourceRepository defines the interface for calendar source data access.
type SourceRepository interface {
	ListByUser(userID uint) ([]models.CalendarSource, error)
	ListICS() ([]models.CalendarSource, error)
	GetByUserAndID(userID, id uint) (*models.CalendarSource, error)
	GetOrCreate(userID uint, name, kind string) (*models.CalendarSource, error)
	Create(src *models.CalendarSource) error
	Update(src *models.CalendarSource) error
	Delete(userID, id uint) error
	Count() (int64, error)
}

// GormSourceRepo implements SourceRepository using GORM.
type GormSourceRepo struct{}

// ListByUser returns all sources belonging to a user.
func (repo *GormSourceRepo) ListByUser(userID uint) ([]models.CalendarSource, error) {
	var sources []models.CalendarSource
	err := database.DB.Where("user_id = ?", userID).Order("name").Find(&sources).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	return sources, nil
}

// ListICS returns every ICS subscription source across all users.
func (repo *GormSourceRepo) ListICS() ([]models.CalendarSource, error) {
	var sources []models.CalendarSource
	err := database.DB.Where("kind = ?", models.SourceKindICS).Find(&sources).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ics sources: %w", err)
	}
	return sources, nil
}

// GetByUserAndID retrieves a single source owned by the given user.
func (repo *GormSourceRepo) GetByUserAndID(userID, id uint) (*models.CalendarSource, error) {
	var src models.CalendarSource
	err := database.DB.Where("user_id = ?", userID).First(&src, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("source with id %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to retrieve source with id %d: %w", id, err)
	}
	return &src, nil
}

// GetOrCreate finds a source by name for the user, creating it with the given
// kind if it does not exist yet.
func (repo *GormSourceRepo) GetOrCreate(userID uint, name, kind string) (*models.CalendarSource, error) {
	var src models.CalendarSource
	err := database.DB.
		Where(models.CalendarSource{UserID: userID, Name: name}).
		Attrs(models.CalendarSource{Kind: kind}).
		FirstOrCreate(&src).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get or create source %q: %w", name, err)
	}
	return &src, nil
}

// Create inserts a new source record.
func (repo *GormSourceRepo) Create(src *models.CalendarSource) error {
	if err := database.DB.Create(src).Error; err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}
	return nil
}

// Update saves the updated source record.
func (repo *GormSourceRepo) Update(src *models.CalendarSource) error {
	if err := database.DB.Save(src).Error; err != nil {
		return fmt.Errorf("failed to update source with id %d: %w", src.ID, err)
	}
	return nil
}

// Delete removes a source owned by the given user.
func (repo *GormSourceRepo) Delete(userID, id uint) error {
	res := database.DB.Where("user_id = ?", userID).Delete(&models.CalendarSource{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete source with id %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("source with id %d not found: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// Count returns the total number of sources.
func (repo *GormSourceRepo) Count() (int64, error) {
	var n int64
	if err := database.DB.Model(&models.CalendarSource{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count sources: %w", err)
	}
	return n, nil
}
