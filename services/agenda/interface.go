package agenda

import (
	"errors"

	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/models"
)

// ErrNotFound is returned when an item does not exist or belongs to someone
// else.
var ErrNotFound = errors.New("agenda item not found")

// AgendaService manages the dated task list.
type AgendaService interface {
	// ListDay returns the items for one date in display order.
	ListDay(userID uint, date string, includeCompleted bool) ([]models.AgendaItem, error)

	// Add creates an item at the end of the day's list.
	Add(userID uint, date, text string) (*models.AgendaItem, error)

	// Update applies the non-nil fields of the input.
	Update(userID, id uint, input models.AgendaUpdateInput) (*models.AgendaItem, error)

	// Delete removes an item.
	Delete(userID, id uint) error
}

// DefaultAgendaService is the production implementation.
type DefaultAgendaService struct {
	Repo repository.AgendaRepository
}
