// database/repository/backup.go
package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sj7trunks/datestack/database"
	"github.com/sj7trunks/datestack/models"
)

// BackupRepository dumps and restores the whole database.
type BackupRepository interface {
	Export() (*models.Backup, error)
	Restore(backup *models.Backup) error
}

// GormBackupRepo implements BackupRepository using GORM.
type GormBackupRepo struct{}

// Export collects every table inside one transaction so the dump is a
// consistent snapshot.
func (repo *GormBackupRepo) Export() (*models.Backup, error) {
	backup := &models.Backup{}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var users []models.User
		if err := tx.Order("id").Find(&users).Error; err != nil {
			return err
		}
		backup.Users = make([]models.BackupUser, 0, len(users))
		for _, u := range users {
			backup.Users = append(backup.Users, models.BackupUser{User: u, PasswordHash: u.PasswordHash})
		}

		var keys []models.APIKey
		if err := tx.Order("id").Find(&keys).Error; err != nil {
			return err
		}
		backup.APIKeys = make([]models.BackupAPIKey, 0, len(keys))
		for _, k := range keys {
			backup.APIKeys = append(backup.APIKeys, models.BackupAPIKey{APIKey: k, UserID: k.UserID, KeyHash: k.KeyHash})
		}

		var sources []models.CalendarSource
		if err := tx.Order("id").Find(&sources).Error; err != nil {
			return err
		}
		backup.Sources = make([]models.BackupSource, 0, len(sources))
		for _, s := range sources {
			backup.Sources = append(backup.Sources, models.BackupSource{CalendarSource: s, UserID: s.UserID})
		}

		if err := tx.Order("id").Find(&backup.Calendars).Error; err != nil {
			return err
		}

		var events []models.Event
		if err := tx.Order("id").Find(&events).Error; err != nil {
			return err
		}
		backup.Events = make([]models.BackupEvent, 0, len(events))
		for _, e := range events {
			backup.Events = append(backup.Events, models.BackupEvent{Event: e, SyncedAt: e.SyncedAt})
		}

		var agenda []models.AgendaItem
		if err := tx.Order("id").Find(&agenda).Error; err != nil {
			return err
		}
		backup.Agenda = make([]models.BackupAgendaItem, 0, len(agenda))
		for _, a := range agenda {
			backup.Agenda = append(backup.Agenda, models.BackupAgendaItem{AgendaItem: a, UserID: a.UserID})
		}

		var settings []models.AvailabilitySettings
		if err := tx.Order("id").Find(&settings).Error; err != nil {
			return err
		}
		backup.Settings = make([]models.BackupSettings, 0, len(settings))
		for _, st := range settings {
			backup.Settings = append(backup.Settings, models.BackupSettings{AvailabilitySettings: st, ID: st.ID, UserID: st.UserID})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export backup: %w", err)
	}
	return backup, nil
}

// Restore replaces the entire database with the backup contents. Row IDs
// from the dump are kept, so references between tables stay valid.
func (repo *GormBackupRepo) Restore(backup *models.Backup) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		// Children before parents so foreign keys never dangle.
		for _, model := range []interface{}{
			&models.Event{},
			&models.Calendar{},
			&models.AgendaItem{},
			&models.AvailabilitySettings{},
			&models.APIKey{},
			&models.CalendarSource{},
			&models.User{},
		} {
			if err := wipe.Delete(model).Error; err != nil {
				return err
			}
		}

		for i := range backup.Users {
			u := backup.Users[i].User
			u.PasswordHash = backup.Users[i].PasswordHash
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
		}
		for i := range backup.APIKeys {
			k := backup.APIKeys[i].APIKey
			k.UserID = backup.APIKeys[i].UserID
			k.KeyHash = backup.APIKeys[i].KeyHash
			if err := tx.Create(&k).Error; err != nil {
				return err
			}
		}
		for i := range backup.Sources {
			src := backup.Sources[i].CalendarSource
			src.UserID = backup.Sources[i].UserID
			if err := tx.Create(&src).Error; err != nil {
				return err
			}
		}
		for i := range backup.Calendars {
			if err := tx.Create(&backup.Calendars[i]).Error; err != nil {
				return err
			}
		}
		for i := range backup.Events {
			event := backup.Events[i].Event
			event.SyncedAt = backup.Events[i].SyncedAt
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
		}
		for i := range backup.Agenda {
			item := backup.Agenda[i].AgendaItem
			item.UserID = backup.Agenda[i].UserID
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		for i := range backup.Settings {
			settings := backup.Settings[i].AvailabilitySettings
			settings.ID = backup.Settings[i].ID
			settings.UserID = backup.Settings[i].UserID
			if err := tx.Create(&settings).Error; err != nil {
				return err
			}
		}

		// Explicit ids do not advance serial sequences on Postgres.
		if tx.Dialector.Name() == "postgres" {
			for _, table := range []string{
				"users", "api_keys", "calendar_sources", "calendars",
				"events", "agenda_items", "availability_settings",
			} {
				fix := fmt.Sprintf(
					"SELECT setval(pg_get_serial_sequence('%s','id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
					table, table)
				if err := tx.Exec(fix).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	return nil
}
