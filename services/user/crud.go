package user

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/utils"
)

// GetByID returns the user's profile.
func (s *DefaultUserService) GetByID(userID uint) (*models.User, error) {
	userRec, err := s.Repo.GetByID(userID)
	if err != nil {
		utils.GetLogger().Error("GetByID: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch user")
	}
	return userRec, nil
}

// GetAllUsers returns every account, for the admin user list.
func (s *DefaultUserService) GetAllUsers() ([]models.User, error) {
	users, err := s.Repo.List()
	if err != nil {
		utils.GetLogger().Error("GetAllUsers: failed to fetch users", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch users")
	}
	return users, nil
}

// UpdateName changes the display name shown on the public availability page.
func (s *DefaultUserService) UpdateName(userID uint, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name must not be empty")
	}

	userRec, err := s.Repo.GetByID(userID)
	if err != nil {
		utils.GetLogger().Error("UpdateName: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("failed to update user")
	}

	userRec.Name = name
	if err := s.Repo.Update(userRec); err != nil {
		utils.GetLogger().Error("UpdateName: failed to save user", zap.Error(err))
		return nil, fmt.Errorf("failed to update user")
	}
	return userRec, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *DefaultUserService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	userRec, err := s.Repo.GetByID(userID)
	if err != nil {
		utils.GetLogger().Error("ChangePassword: failed to fetch user", zap.Error(err))
		return fmt.Errorf("failed to change password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("ChangePassword: failed to hash password", zap.Error(err))
		return fmt.Errorf("failed to change password")
	}

	userRec.PasswordHash = string(hash)
	if err := s.Repo.Update(userRec); err != nil {
		utils.GetLogger().Error("ChangePassword: failed to save user", zap.Error(err))
		return fmt.Errorf("failed to change password")
	}
	return nil
}
