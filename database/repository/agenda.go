// database/repository/agenda.go
package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/database"
	"github.com/sj7trunks/datestack/models"
)

// AgendaRepository defines the interface for agenda item data access.
type AgendaRepository interface {
	ListByUserAndDate(userID uint, date string, includeCompleted bool) ([]models.AgendaItem, error)
	ListAllByUser(userID uint) ([]models.AgendaItem, error)
	GetByUserAndID(userID, id uint) (*models.AgendaItem, error)
	Create(item *models.AgendaItem) error
	Update(item *models.AgendaItem) error
	Delete(userID, id uint) error
	MaxPosition(userID uint, date string) (int, error)
	Count() (int64, error)
}

// GormAgendaRepo implements AgendaRepository using GORM.
type GormAgendaRepo struct{}

// ListByUserAndDate returns the user's agenda items for one day in display
// order. Completed items are skipped unless includeCompleted is set.
func (repo *GormAgendaRepo) ListByUserAndDate(userID uint, date string, includeCompleted bool) ([]models.AgendaItem, error) {
	q := database.DB.Where("user_id = ? AND date = ?", userID, date)
	if !includeCompleted {
		q = q.Where("completed = ?", false)
	}

	var items []models.AgendaItem
	if err := q.Order("position").Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list agenda items: %w", err)
	}
	return items, nil
}

// ListAllByUser returns every agenda item belonging to a user.
func (repo *GormAgendaRepo) ListAllByUser(userID uint) ([]models.AgendaItem, error) {
	var items []models.AgendaItem
	err := database.DB.Where("user_id = ?", userID).Order("date").Order("position").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list agenda items: %w", err)
	}
	return items, nil
}

// GetByUserAndID retrieves a single item owned by the given user.
func (repo *GormAgendaRepo) GetByUserAndID(userID, id uint) (*models.AgendaItem, error) {
	var item models.AgendaItem
	err := database.DB.Where("user_id = ?", userID).First(&item, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("agenda item with id %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to retrieve agenda item with id %d: %w", id, err)
	}
	return &item, nil
}

// Create inserts a new agenda item.
func (repo *GormAgendaRepo) Create(item *models.AgendaItem) error {
	if err := database.DB.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create agenda item: %w", err)
	}
	return nil
}

// Update saves the updated agenda item.
func (repo *GormAgendaRepo) Update(item *models.AgendaItem) error {
	if err := database.DB.Save(item).Error; err != nil {
		return fmt.Errorf("failed to update agenda item with id %d: %w", item.ID, err)
	}
	return nil
}

// Delete removes an item owned by the given user.
func (repo *GormAgendaRepo) Delete(userID, id uint) error {
	res := database.DB.Where("user_id = ?", userID).Delete(&models.AgendaItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete agenda item with id %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("agenda item with id %d not found: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// MaxPosition returns the highest position used on a given day, zero when
// the day is empty.
func (repo *GormAgendaRepo) MaxPosition(userID uint, date string) (int, error) {
	var max *int
	err := database.DB.Model(&models.AgendaItem{}).
		Select("MAX(position)").
		Where("user_id = ? AND date = ?", userID, date).
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute max position: %w", err)
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// Count returns the total number of agenda items.
func (repo *GormAgendaRepo) Count() (int64, error) {
	var n int64
	if err := database.DB.Model(&models.AgendaItem{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count agenda items: %w", err)
	}
	return n, nil
}
