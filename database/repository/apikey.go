// database/repository/apikey.go
package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/database"
	"github.com/sj7trunks/datestack/models"
)

// APIKeyRepository defines the interface for API key data access.
type APIKeyRepository interface {
	ListByUser(userID uint) ([]models.APIKey, error)
	GetByHash(hash string) (*models.APIKey, error)
	Create(key *models.APIKey) error
	Delete(userID, id uint) error
	TouchLastUsed(id uint, when time.Time) error
}

// GormAPIKeyRepo implements APIKeyRepository using GORM.
type GormAPIKeyRepo struct{}

// ListByUser returns all keys belonging to a user, newest first.
func (repo *GormAPIKeyRepo) ListByUser(userID uint) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := database.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return keys, nil
}

// GetByHash looks up a key by the SHA-256 hash of its raw value.
func (repo *GormAPIKeyRepo) GetByHash(hash string) (*models.APIKey, error) {
	var key models.APIKey
	err := database.DB.First(&key, "key_hash = ?", hash).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("api key not found: %w", err)
		}
		return nil, fmt.Errorf("failed to retrieve api key: %w", err)
	}
	return &key, nil
}

// Create inserts a new API key record.
func (repo *GormAPIKeyRepo) Create(key *models.APIKey) error {
	if err := database.DB.Create(key).Error; err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// Delete removes a key owned by the given user.
func (repo *GormAPIKeyRepo) Delete(userID, id uint) error {
	res := database.DB.Where("user_id = ?", userID).Delete(&models.APIKey{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete api key with id %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("api key with id %d not found: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// TouchLastUsed records when a key last authenticated a request.
func (repo *GormAPIKeyRepo) TouchLastUsed(id uint, when time.Time) error {
	err := database.DB.Model(&models.APIKey{}).Where("id = ?", id).
		Update("last_used_at", when).Error
	if err != nil {
		return fmt.Errorf("failed to touch api key with id %d: %w", id, err)
	}
	return nil
}
