package user

import (
	"errors"

	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/models"
)

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSignupDisabled     = errors.New("signup is disabled on this server")
)

type UserService interface {
	// Register creates an account. The first account on a fresh server
	// becomes the admin.
	Register(name, email, password string) (*AuthResponse, error)

	// Authenticate verifies credentials and issues a JWT.
	Authenticate(email, password string) (*AuthResponse, error)

	// GetByID returns the user's profile.
	GetByID(userID uint) (*models.User, error)

	// GetAllUsers returns every account, for the admin user list.
	GetAllUsers() ([]models.User, error)

	// UpdateName changes the display name.
	UpdateName(userID uint, name string) (*models.User, error)

	// ChangePassword verifies the current password before setting a new one.
	ChangePassword(userID uint, currentPassword, newPassword string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo repository.UserRepository
}

// AuthResponse contains the issued token together with the account it
// belongs to.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}
