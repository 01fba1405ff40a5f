package events

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/utils"
)

// ListSources returns the user's sources with their event counts.
func (s *DefaultEventService) ListSources(userID uint) ([]models.CalendarSource, error) {
	sources, err := s.Sources.ListByUser(userID)
	if err != nil {
		utils.GetLogger().Error("ListSources: failed to fetch sources", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch sources")
	}

	counts, err := s.Events.CountBySource(userID)
	if err != nil {
		utils.GetLogger().Error("ListSources: failed to count events", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch sources")
	}
	for i := range sources {
		sources[i].EventCount = counts[sources[i].ID]
	}
	return sources, nil
}

// CreateICSSource registers an ICS subscription and performs the first
// refresh synchronously so the caller sees immediate feedback.
func (s *DefaultEventService) CreateICSSource(ctx context.Context, userID uint, name, rawURL string) (*models.CalendarSource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("url must be an http(s) address")
	}

	src := &models.CalendarSource{
		UserID: userID,
		Name:   name,
		Kind:   models.SourceKindICS,
		URL:    parsed.String(),
	}
	if err := s.Sources.Create(src); err != nil {
		utils.GetLogger().Error("CreateICSSource: failed to create source", zap.Error(err))
		return nil, fmt.Errorf("a source with this name already exists")
	}

	if _, err := s.refreshICS(ctx, src); err != nil {
		utils.GetLogger().Warn("CreateICSSource: initial refresh failed",
			zap.String("source", src.Name), zap.Error(err))
	}
	return src, nil
}

// DeleteSource removes a source together with its calendars and events.
func (s *DefaultEventService) DeleteSource(userID, sourceID uint) error {
	src, err := s.Sources.GetByUserAndID(userID, sourceID)
	if err != nil {
		return ErrSourceNotFound
	}

	if _, err := s.Events.DeleteBySource(src.ID); err != nil {
		utils.GetLogger().Error("DeleteSource: failed to delete events", zap.Error(err))
		return fmt.Errorf("failed to delete source")
	}
	if err := s.Calendars.DeleteBySource(src.ID); err != nil {
		utils.GetLogger().Error("DeleteSource: failed to delete calendars", zap.Error(err))
		return fmt.Errorf("failed to delete source")
	}
	if err := s.Sources.Delete(userID, src.ID); err != nil {
		utils.GetLogger().Error("DeleteSource: failed to delete source", zap.Error(err))
		return fmt.Errorf("failed to delete source")
	}
	return nil
}

// RefreshSource re-fetches one ICS subscription owned by the user.
func (s *DefaultEventService) RefreshSource(ctx context.Context, userID, sourceID uint) (*models.SyncResult, error) {
	src, err := s.Sources.GetByUserAndID(userID, sourceID)
	if err != nil {
		return nil, ErrSourceNotFound
	}
	if src.Kind != models.SourceKindICS {
		return nil, fmt.Errorf("source %q is not an ics subscription", src.Name)
	}
	return s.refreshICS(ctx, src)
}
