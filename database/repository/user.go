// database/repository/user.go
package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/database"
	"github.com/sj7trunks/datestack/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	List() ([]models.User, error)
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	Count() (int64, error)
}

// GormUserRepo implements UserRepository using GORM.
type GormUserRepo struct{}

// List returns all registered users ordered by id.
func (repo *GormUserRepo) List() ([]models.User, error) {
	var users []models.User
	if err := database.DB.Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetByID retrieves a user by their ID.
func (repo *GormUserRepo) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := database.DB.First(&user, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with id %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to retrieve user with id %d: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email.
func (repo *GormUserRepo) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := database.DB.First(&user, "email = ?", email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with email %s not found: %w", email, err)
		}
		return nil, fmt.Errorf("failed to retrieve user with email %s: %w", email, err)
	}
	return &user, nil
}

// Create inserts a new user record into the database.
func (repo *GormUserRepo) Create(user *models.User) error {
	if err := database.DB.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update saves the updated user record.
func (repo *GormUserRepo) Update(user *models.User) error {
	if err := database.DB.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user with id %d: %w", user.ID, err)
	}
	return nil
}

// Count returns the total number of registered users.
func (repo *GormUserRepo) Count() (int64, error) {
	var n int64
	if err := database.DB.Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
