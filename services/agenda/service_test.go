package agenda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sj7trunks/datestack/database"
	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/models"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db
}

func newTestService() *DefaultAgendaService {
	return &DefaultAgendaService{Repo: &repository.GormAgendaRepo{}}
}

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }
func intPtr(n int) *int { return &n }

func TestAddAssignsSequentialPositions(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	first, err := svc.Add(1, "2025-06-02", "  Buy milk  ")
	require.NoError(t, err)
	second, err := svc.Add(1, "2025-06-02", "Call dentist")
	require.NoError(t, err)
	third, err := svc.Add(1, "2025-06-02", "Pack bags")
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", first.Text, "text must be trimmed")
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
	assert.Equal(t, 3, third.Position)

	// Positions count per day, not globally.
	otherDay, err := svc.Add(1, "2025-06-03", "Different day")
	require.NoError(t, err)
	assert.Equal(t, 1, otherDay.Position)
}

func TestAddValidation(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	_, err := svc.Add(1, "2025-06-02", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text is required")

	_, err = svc.Add(1, "06/02/2025", "Wrong date format")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestAddDefaultsToToday(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	item, err := svc.Add(1, "", "Sometime today")
	require.NoError(t, err)

	items, err := svc.ListDay(1, "", false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
}

func TestListDayFiltersCompleted(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	done, err := svc.Add(1, "2025-06-02", "Done already")
	require.NoError(t, err)
	_, err = svc.Add(1, "2025-06-02", "Still open")
	require.NoError(t, err)

	_, err = svc.Update(1, done.ID, models.AgendaUpdateInput{Completed: boolPtr(true)})
	require.NoError(t, err)

	open, err := svc.ListDay(1, "2025-06-02", false)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "Still open", open[0].Text)

	all, err := svc.ListDay(1, "2025-06-02", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListDayOrdersByPosition(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	a, err := svc.Add(1, "2025-06-02", "First")
	require.NoError(t, err)
	_, err = svc.Add(1, "2025-06-02", "Second")
	require.NoError(t, err)

	// Move the first item to the end of the list.
	_, err = svc.Update(1, a.ID, models.AgendaUpdateInput{Position: intPtr(9)})
	require.NoError(t, err)

	items, err := svc.ListDay(1, "2025-06-02", false)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Second", items[0].Text)
	assert.Equal(t, "First", items[1].Text)
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	item, err := svc.Add(1, "2025-06-02", "Original")
	require.NoError(t, err)

	updated, err := svc.Update(1, item.ID, models.AgendaUpdateInput{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Original", updated.Text, "unset fields stay untouched")

	moved, err := svc.Update(1, item.ID, models.AgendaUpdateInput{Date: strPtr("2025-06-05")})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-05", moved.Date)

	_, err = svc.Update(1, item.ID, models.AgendaUpdateInput{Text: strPtr("  ")})
	require.Error(t, err)
}

func TestUpdateRejectsForeignItem(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	item, err := svc.Add(1, "2025-06-02", "Mine")
	require.NoError(t, err)

	_, err = svc.Update(2, item.ID, models.AgendaUpdateInput{Completed: boolPtr(true)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	item, err := svc.Add(1, "2025-06-02", "Short-lived")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(1, item.ID))

	items, err := svc.ListDay(1, "2025-06-02", true)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, svc.Delete(1, item.ID), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(2, 999), ErrNotFound)
}
