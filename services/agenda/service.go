package agenda

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/utils"
)

const dateLayout = "2006-01-02"

// normalizeDate validates a YYYY-MM-DD string, substituting today in the
// server timezone when empty.
func normalizeDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Now().In(config.Location()).Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", fmt.Errorf("date must be formatted YYYY-MM-DD")
	}
	return date, nil
}

// ListDay returns the items for one date in display order.
func (s *DefaultAgendaService) ListDay(userID uint, date string, includeCompleted bool) ([]models.AgendaItem, error) {
	date, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}

	items, err := s.Repo.ListByUserAndDate(userID, date, includeCompleted)
	if err != nil {
		utils.GetLogger().Error("ListDay: failed to fetch items", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch agenda")
	}
	return items, nil
}

// Add creates an item at the end of the day's list.
func (s *DefaultAgendaService) Add(userID uint, date, text string) (*models.AgendaItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	date, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}

	maxPos, err := s.Repo.MaxPosition(userID, date)
	if err != nil {
		utils.GetLogger().Error("Add: failed to compute position", zap.Error(err))
		return nil, fmt.Errorf("failed to add agenda item")
	}

	item := &models.AgendaItem{
		UserID:   userID,
		Date:     date,
		Text:     text,
		Position: maxPos + 1,
	}
	if err := s.Repo.Create(item); err != nil {
		utils.GetLogger().Error("Add: failed to create item", zap.Error(err))
		return nil, fmt.Errorf("failed to add agenda item")
	}
	return item, nil
}

// Update applies the non-nil fields of the input.
func (s *DefaultAgendaService) Update(userID, id uint, input models.AgendaUpdateInput) (*models.AgendaItem, error) {
	item, err := s.Repo.GetByUserAndID(userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		utils.GetLogger().Error("Update: failed to fetch item", zap.Error(err))
		return nil, fmt.Errorf("failed to update agenda item")
	}

	if input.Text != nil {
		text := strings.TrimSpace(*input.Text)
		if text == "" {
			return nil, fmt.Errorf("text must not be empty")
		}
		item.Text = text
	}
	if input.Date != nil {
		date, err := normalizeDate(*input.Date)
		if err != nil {
			return nil, err
		}
		item.Date = date
	}
	if input.Completed != nil {
		item.Completed = *input.Completed
	}
	if input.Position != nil {
		item.Position = *input.Position
	}

	if err := s.Repo.Update(item); err != nil {
		utils.GetLogger().Error("Update: failed to save item", zap.Error(err))
		return nil, fmt.Errorf("failed to update agenda item")
	}
	return item, nil
}

// Delete removes an item.
func (s *DefaultAgendaService) Delete(userID, id uint) error {
	if err := s.Repo.Delete(userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		utils.GetLogger().Error("Delete: failed to delete item", zap.Error(err))
		return fmt.Errorf("failed to delete agenda item")
	}
	return nil
}
