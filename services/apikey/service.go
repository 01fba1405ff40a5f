package apikey

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/utils"
)

// ErrInvalidKey is returned when a presented API key matches nothing.
var ErrInvalidKey = errors.New("invalid api key")

// APIKeyService issues and verifies sync client credentials.
type APIKeyService interface {
	// List returns the user's keys, hashes omitted.
	List(userID uint) ([]models.APIKey, error)

	// Create mints a new key. The raw value is returned exactly once.
	Create(userID uint, name string) (string, *models.APIKey, error)

	// Delete revokes a key.
	Delete(userID, id uint) error

	// Authenticate resolves a raw key to its record and updates the
	// last-used timestamp.
	Authenticate(rawKey string) (*models.APIKey, error)
}

// DefaultAPIKeyService is the production implementation.
type DefaultAPIKeyService struct {
	Repo repository.APIKeyRepository
}

// List returns the user's keys, newest first.
func (s *DefaultAPIKeyService) List(userID uint) ([]models.APIKey, error) {
	keys, err := s.Repo.ListByUser(userID)
	if err != nil {
		utils.GetLogger().Error("List: failed to fetch api keys", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch api keys")
	}
	return keys, nil
}

// Create mints a new key for the sync client.
func (s *DefaultAPIKeyService) Create(userID uint, name string) (string, *models.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Sync client"
	}

	raw, err := utils.GenerateAPIKey()
	if err != nil {
		utils.GetLogger().Error("Create: failed to generate api key", zap.Error(err))
		return "", nil, fmt.Errorf("failed to create api key")
	}

	key := &models.APIKey{
		UserID:  userID,
		Name:    name,
		KeyHash: utils.HashToken(raw),
		Prefix:  utils.KeyPrefix(raw),
	}
	if err := s.Repo.Create(key); err != nil {
		utils.GetLogger().Error("Create: failed to store api key", zap.Error(err))
		return "", nil, fmt.Errorf("failed to create api key")
	}
	return raw, key, nil
}

// Delete revokes a key owned by the user.
func (s *DefaultAPIKeyService) Delete(userID, id uint) error {
	if err := s.Repo.Delete(userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("api key not found")
		}
		utils.GetLogger().Error("Delete: failed to delete api key", zap.Error(err))
		return fmt.Errorf("failed to delete api key")
	}
	return nil
}

// Authenticate resolves a raw key and touches its last-used timestamp.
func (s *DefaultAPIKeyService) Authenticate(rawKey string) (*models.APIKey, error) {
	rawKey = strings.TrimSpace(rawKey)
	if rawKey == "" {
		return nil, ErrInvalidKey
	}

	key, err := s.Repo.GetByHash(utils.HashToken(rawKey))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidKey
		}
		utils.GetLogger().Error("Authenticate: failed to look up api key", zap.Error(err))
		return nil, fmt.Errorf("failed to verify api key")
	}

	// Bump last_used_at at most once per minute.
	now := time.Now()
	if key.LastUsedAt == nil || now.Sub(*key.LastUsedAt) >= time.Minute {
		if err := s.Repo.TouchLastUsed(key.ID, now); err != nil {
			utils.GetLogger().Warn("Authenticate: failed to touch api key", zap.Error(err))
		}
	}
	return key, nil
}
