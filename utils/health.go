package utils

import (
	"sync"
	"time"

	"gorm.io/gorm"
)

// HealthStatus represents current status of the database connection.
type HealthStatus struct {
	Database  bool      `json:"database"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

func checkDatabase(db *gorm.DB) bool {
	sqlDB, err := db.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
func StartHealthMonitor(db *gorm.DB) {
	mu.Lock()
	currentHealth = HealthStatus{Database: checkDatabase(db), CheckedAt: time.Now()}
	mu.Unlock()

	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			healthy := checkDatabase(db)

			mu.Lock()
			currentHealth = HealthStatus{
				Database:  healthy,
				CheckedAt: time.Now(),
			}
			mu.Unlock()
		}
	}()
}
