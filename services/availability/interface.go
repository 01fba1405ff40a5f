package availability

import (
	"time"

	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/models"
)

// AvailabilityService manages per-user availability settings and computes the
// public free/busy view.
type AvailabilityService interface {
	// GetSettings returns the user's settings, creating the row with
	// defaults on first access.
	GetSettings(userID uint) (*models.AvailabilitySettings, error)

	// UpdateSettings applies the non-nil fields of the input and returns
	// the updated settings.
	UpdateSettings(userID uint, input models.AvailabilityUpdateInput) (*models.AvailabilitySettings, error)

	// RotateShareToken replaces the share token, invalidating old links.
	RotateShareToken(userID uint) (*models.AvailabilitySettings, error)

	// Public resolves a share token to the free/busy view. The from date is
	// optional; it defaults to today in the server timezone.
	Public(token string, from *time.Time) (*models.PublicAvailability, error)

	// BusyFeed renders the shared window as an iCalendar of opaque busy
	// blocks.
	BusyFeed(token string) (string, error)
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	Repo   repository.AvailabilityRepository
	Events repository.EventRepository
	Users  repository.UserRepository
}
