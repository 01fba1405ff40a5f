package events

import (
	"fmt"
	"testing"
	"time"

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

func newTestService() *DefaultEventService {
	return &DefaultEventService{
		Events:    &repository.GormEventRepo{},
		Sources:   &repository.GormSourceRepo{},
		Calendars: &repository.GormCalendarRepo{},
	}
}

func strPtr(s string) *string { return &s }

func isoIn(daysFromNow int, hour int) string {
	t := time.Now().AddDate(0, 0, daysFromNow)
	return fmt.Sprintf("%04d-%02d-%02dT%02d:00:00", t.Year(), t.Month(), t.Day(), hour)
}

func TestIngestCreatesSourceCalendarsAndEvents(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	result, err := svc.Ingest(1, models.SyncRequest{
		SourceName: "work-macbook",
		Events: []models.EventInput{
			{
				Title:        "Standup",
				StartTime:    isoIn(1, 9),
				EndTime:      strPtr(isoIn(1, 10)),
				CalendarName: strPtr("Work"),
				ExternalID:   strPtr("uid-1"),
			},
			{
				Title:        "Dentist",
				StartTime:    isoIn(2, 14),
				CalendarName: strPtr("Personal"),
				ExternalID:   strPtr("uid-2"),
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.EventsSynced)
	assert.Equal(t, 0, result.EventsDeleted)

	sources, err := svc.ListSources(1)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "work-macbook", sources[0].Name)
	assert.Equal(t, sources[0].ID, result.SourceID)
	assert.Equal(t, models.SourceKindPush, sources[0].Kind)
	assert.Equal(t, int64(2), sources[0].EventCount)
	require.NotNil(t, sources[0].LastSyncedAt)

	cals, err := (&repository.GormCalendarRepo{}).ListByUser(1)
	require.NoError(t, err)
	require.Len(t, cals, 2)
	assert.NotEqual(t, cals[0].Color, cals[1].Color, "palette must rotate")
}

func TestIngestUpsertsByExternalID(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	push := func(title string) *models.SyncResult {
		res, err := svc.Ingest(1, models.SyncRequest{
			SourceName: "mac",
			Events: []models.EventInput{
				{Title: title, StartTime: isoIn(1, 9), ExternalID: strPtr("same-uid")},
			},
		})
		require.NoError(t, err)
		return res
	}

	push("Original title")
	second := push("Renamed meeting")
	assert.Equal(t, 1, second.EventsSynced)
	assert.Equal(t, 0, second.EventsDeleted)

	events, err := (&repository.GormEventRepo{}).ListAllByUser(1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Renamed meeting", events[0].Title)
}

func TestIngestRemovesStaleUpcomingEvents(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	_, err := svc.Ingest(1, models.SyncRequest{
		SourceName: "mac",
		Events: []models.EventInput{
			{Title: "Keep", StartTime: isoIn(1, 9), ExternalID: strPtr("keep")},
			{Title: "Cancelled", StartTime: isoIn(2, 9), ExternalID: strPtr("gone")},
		},
	})
	require.NoError(t, err)

	result, err := svc.Ingest(1, models.SyncRequest{
		SourceName: "mac",
		Events: []models.EventInput{
			{Title: "Keep", StartTime: isoIn(1, 9), ExternalID: strPtr("keep")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.EventsDeleted)

	events, err := (&repository.GormEventRepo{}).ListAllByUser(1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Keep", events[0].Title)
}

func TestIngestPreservesPastEvents(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	_, err := svc.Ingest(1, models.SyncRequest{
		SourceName: "mac",
		Events: []models.EventInput{
			{Title: "Last week", StartTime: isoIn(-7, 10), ExternalID: strPtr("past")},
			{Title: "Tomorrow", StartTime: isoIn(1, 10), ExternalID: strPtr("future")},
		},
	})
	require.NoError(t, err)

	// The next run no longer carries the past event; it must survive the
	// stale sweep anyway.
	result, err := svc.Ingest(1, models.SyncRequest{
		SourceName: "mac",
		Events: []models.EventInput{
			{Title: "Tomorrow", StartTime: isoIn(1, 10), ExternalID: strPtr("future")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.EventsDeleted)

	events, err := (&repository.GormEventRepo{}).ListAllByUser(1)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestIngestStableIdentityWithoutExternalID(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	input := models.SyncRequest{
		SourceName: "mac",
		Events: []models.EventInput{
			{Title: "No UID here", StartTime: isoIn(1, 11)},
		},
	}

	_, err := svc.Ingest(1, input)
	require.NoError(t, err)
	res, err := svc.Ingest(1, input)
	require.NoError(t, err)
	assert.Equal(t, 0, res.EventsDeleted)

	events, err := (&repository.GormEventRepo{}).ListAllByUser(1)
	require.NoError(t, err)
	assert.Len(t, events, 1, "same title and start must map to the same row")
}

func TestIngestSkipsUnparseableTimes(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	result, err := svc.Ingest(1, models.SyncRequest{
		SourceName: "mac",
		Events: []models.EventInput{
			{Title: "Broken", StartTime: "not a time"},
			{Title: "Fine", StartTime: isoIn(1, 9), ExternalID: strPtr("ok")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.EventsSynced)
}

func TestIngestRejectsPushIntoICSSource(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	require.NoError(t, (&repository.GormSourceRepo{}).Create(&models.CalendarSource{
		UserID: 1,
		Name:   "holidays",
		Kind:   models.SourceKindICS,
		URL:    "https://example.com/holidays.ics",
	}))

	_, err := svc.Ingest(1, models.SyncRequest{
		SourceName: "holidays",
		Events:     []models.EventInput{{Title: "X", StartTime: isoIn(1, 9)}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ics subscription")
}

func TestIngestRequiresSourceName(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	_, err := svc.Ingest(1, models.SyncRequest{SourceName: "  "})
	require.Error(t, err)
}

func TestDeleteSourceRemovesEvents(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	_, err := svc.Ingest(1, models.SyncRequest{
		SourceName: "mac",
		Events: []models.EventInput{
			{Title: "A", StartTime: isoIn(1, 9), ExternalID: strPtr("a")},
		},
	})
	require.NoError(t, err)

	sources, err := svc.ListSources(1)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	require.NoError(t, svc.DeleteSource(1, sources[0].ID))

	events, err := (&repository.GormEventRepo{}).ListAllByUser(1)
	require.NoError(t, err)
	assert.Empty(t, events)

	sources, err = svc.ListSources(1)
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestParseClientTime(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "naive iso datetime",
			input: "2025-03-10T09:30:00",
			want:  time.Date(2025, 3, 10, 9, 30, 0, 0, loc),
		},
		{
			name:  "rfc3339 with offset",
			input: "2025-03-10T09:30:00+02:00",
			want:  time.Date(2025, 3, 10, 7, 30, 0, 0, loc),
		},
		{
			name:  "bare date",
			input: "2025-03-10",
			want:  time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
		},
		{
			name:    "garbage",
			input:   "yesterday-ish",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseClientTime(tt.input, loc)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}
