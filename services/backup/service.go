package backup

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/utils"
)

// ErrUnsupportedVersion is returned when a dump was written by a newer
// server.
var ErrUnsupportedVersion = errors.New("unsupported backup version")

// Stats summarizes what the instance holds.
type Stats struct {
	Users   int64 `json:"users"`
	Sources int64 `json:"sources"`
	Events  int64 `json:"events"`
	Agenda  int64 `json:"agenda_items"`
}

// BackupService exports and restores the whole instance.
type BackupService interface {
	Export() (*models.Backup, error)
	Restore(backup *models.Backup) error
	Stats() (*Stats, error)
}

// DefaultBackupService is the production implementation.
type DefaultBackupService struct {
	Repo    repository.BackupRepository
	Users   repository.UserRepository
	Sources repository.SourceRepository
	Events  repository.EventRepository
	Agenda  repository.AgendaRepository
}

// Export snapshots every table into a single versioned document.
func (s *DefaultBackupService) Export() (*models.Backup, error) {
	backup, err := s.Repo.Export()
	if err != nil {
		utils.GetLogger().Error("Export: failed to export data", zap.Error(err))
		return nil, fmt.Errorf("failed to export data")
	}
	backup.Version = models.BackupVersion
	backup.CreatedAt = time.Now().UTC()
	return backup, nil
}

// Restore replaces the instance contents with the backup.
func (s *DefaultBackupService) Restore(backup *models.Backup) error {
	if backup == nil {
		return fmt.Errorf("backup payload is required")
	}
	if backup.Version > models.BackupVersion {
		return fmt.Errorf("%w %d", ErrUnsupportedVersion, backup.Version)
	}
	if err := s.Repo.Restore(backup); err != nil {
		utils.GetLogger().Error("Restore: failed to restore data", zap.Error(err))
		return fmt.Errorf("failed to restore data")
	}
	return nil
}

// Stats reports instance-wide row counts.
func (s *DefaultBackupService) Stats() (*Stats, error) {
	users, err := s.Users.Count()
	if err != nil {
		utils.GetLogger().Error("Stats: failed to count users", zap.Error(err))
		return nil, fmt.Errorf("failed to gather stats")
	}
	sources, err := s.Sources.Count()
	if err != nil {
		utils.GetLogger().Error("Stats: failed to count sources", zap.Error(err))
		return nil, fmt.Errorf("failed to gather stats")
	}
	events, err := s.Events.Count()
	if err != nil {
		utils.GetLogger().Error("Stats: failed to count events", zap.Error(err))
		return nil, fmt.Errorf("failed to gather stats")
	}
	agenda, err := s.Agenda.Count()
	if err != nil {
		utils.GetLogger().Error("Stats: failed to count agenda items", zap.Error(err))
		return nil, fmt.Errorf("failed to gather stats")
	}
	return &Stats{Users: users, Sources: sources, Events: events, Agenda: agenda}, nil
}
