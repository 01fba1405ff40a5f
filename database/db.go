package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/models"
)

// DB is the global database handle.
var DB *gorm.DB

// Open connects to the database named by DATABASE_URL. A postgres:// or
// postgresql:// URL selects PostgreSQL; anything else is a SQLite file path.
func Open(databaseURL string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if !config.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Warn)
	}

	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		db, err := gorm.Open(postgres.Open(databaseURL), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return db, nil
	}

	// SQLite path. Make sure the parent directory exists.
	if dir := filepath.Dir(databaseURL); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}
	db, err := gorm.Open(sqlite.Open(databaseURL+"?_foreign_keys=on"), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", databaseURL, err)
	}
	return db, nil
}

// Migrate creates or updates the schema for all persisted models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.APIKey{},
		&models.CalendarSource{},
		&models.Calendar{},
		&models.Event{},
		&models.AgendaItem{},
		&models.AvailabilitySettings{},
	)
}

// InitDB opens the configured database, runs migrations and stores the
// global handle.
func InitDB() {
	db, err := Open(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	DB = db
	log.Println("Connected to database successfully!")
}
