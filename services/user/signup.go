package user

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/utils"
)

// Register creates a new account and signs the user in. Registration after
// the first account is gated by ALLOW_SIGNUP; the first account always goes
// through and becomes the admin.
func (s *DefaultUserService) Register(name, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("name, email and password are required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	count, err := s.Repo.Count()
	if err != nil {
		utils.GetLogger().Error("Register: failed to count users", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if count > 0 && !config.AppConfig.AllowSignup {
		return nil, ErrSignupDisabled
	}

	existing, err := s.Repo.GetByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.GetLogger().Error("Register: failed to check for existing user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("Register: failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	newUser := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      count == 0,
	}
	if err := s.Repo.Create(newUser); err != nil {
		utils.GetLogger().Error("Register: failed to create user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	token, err := utils.GenerateToken(fmt.Sprint(newUser.ID), newUser.Email, config.TokenTTL())
	if err != nil {
		utils.GetLogger().Error("Register: failed to sign token", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	return &AuthResponse{Token: token, User: *newUser}, nil
}
