package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/models"
)

func seedPushSource(t *testing.T, userID uint) (uint, uint) {
	t.Helper()
	src := models.CalendarSource{UserID: userID, Name: "mac", Kind: models.SourceKindPush}
	require.NoError(t, (&repository.GormSourceRepo{}).Create(&src))
	cal := models.Calendar{SourceID: src.ID, Name: "Work", Color: "#7c3aed"}
	require.NoError(t, (&repository.GormCalendarRepo{}).Create(&cal))
	return src.ID, cal.ID
}

func seedEvent(t *testing.T, sourceID, calendarID uint, title string, start time.Time, end *time.Time, allDay bool) {
	t.Helper()
	require.NoError(t, (&repository.GormEventRepo{}).Create(&models.Event{
		SourceID:   sourceID,
		CalendarID: calendarID,
		ExternalID: title,
		Title:      title,
		StartTime:  start,
		EndTime:    end,
		AllDay:     allDay,
		SyncedAt:   time.Now(),
	}))
}

func timePtr(tm time.Time) *time.Time { return &tm }

func tomorrowAt(hour, min int) time.Time {
	d := time.Now().In(config.Location()).AddDate(0, 0, 1)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, config.Location())
}

func slotStatusByTime(slots []models.TimeSlot) map[string]models.SlotStatus {
	out := make(map[string]models.SlotStatus, len(slots))
	for _, s := range slots {
		out[s.Start.Format("15:04")] = s.Status
	}
	return out
}

func TestPublicUnknownToken(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	_, err := svc.Public("deadbeef", nil)
	assert.ErrorIs(t, err, ErrNotShared)
}

func TestPublicDisabledPageLooksUnknown(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()
	userID := seedUser(t, "ada")

	settings, err := svc.GetSettings(userID)
	require.NoError(t, err)

	_, err = svc.Public(settings.ShareToken, nil)
	assert.ErrorIs(t, err, ErrNotShared)
}

func TestPublicMarksBusySlots(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()
	userID := seedUser(t, "Ada")
	srcID, calID := seedPushSource(t, userID)

	settings, err := svc.UpdateSettings(userID, models.AvailabilityUpdateInput{Enabled: boolPtr(true)})
	require.NoError(t, err)

	start := tomorrowAt(10, 0)
	seedEvent(t, srcID, calID, "standup", start, timePtr(start.Add(time.Hour)), false)

	view, err := svc.Public(settings.ShareToken, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ada", view.Name)
	assert.Equal(t, models.DefaultStartHour, view.StartHour)
	assert.Equal(t, models.DefaultEndHour, view.EndHour)
	require.Len(t, view.Days, models.DefaultDaysAhead)

	day := view.Days[1]
	assert.Equal(t, start.Format("2006-01-02"), day.Date)
	byStart := slotStatusByTime(day.Slots)
	assert.Equal(t, models.SlotFree, byStart["09:30"])
	assert.Equal(t, models.SlotBusy, byStart["10:00"])
	assert.Equal(t, models.SlotBusy, byStart["10:30"])
	assert.Equal(t, models.SlotFree, byStart["11:00"])
}

func TestPublicHonorsFromParameter(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()
	userID := seedUser(t, "ada")
	srcID, calID := seedPushSource(t, userID)

	settings, err := svc.UpdateSettings(userID, models.AvailabilityUpdateInput{Enabled: boolPtr(true)})
	require.NoError(t, err)

	loc := config.Location()
	start := time.Date(2027, time.June, 7, 13, 0, 0, 0, loc)
	seedEvent(t, srcID, calID, "workshop", start, timePtr(start.Add(2*time.Hour)), false)

	// A mid-day from value clamps to midnight of that day.
	from := time.Date(2027, time.June, 7, 15, 4, 5, 0, loc)
	view, err := svc.Public(settings.ShareToken, &from)
	require.NoError(t, err)
	require.Len(t, view.Days, models.DefaultDaysAhead)
	assert.Equal(t, "2027-06-07", view.Days[0].Date)

	byStart := slotStatusByTime(view.Days[0].Slots)
	assert.Equal(t, models.SlotBusy, byStart["13:00"])
	assert.Equal(t, models.SlotBusy, byStart["14:30"])
	assert.Equal(t, models.SlotFree, byStart["15:00"])
}

func TestPublicIgnoresAllDayEvents(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()
	userID := seedUser(t, "ada")
	srcID, calID := seedPushSource(t, userID)

	settings, err := svc.UpdateSettings(userID, models.AvailabilityUpdateInput{Enabled: boolPtr(true)})
	require.NoError(t, err)

	day := tomorrowAt(0, 0)
	seedEvent(t, srcID, calID, "conference", day, timePtr(day.AddDate(0, 0, 1)), true)

	view, err := svc.Public(settings.ShareToken, nil)
	require.NoError(t, err)
	for _, slot := range view.Days[1].Slots {
		assert.Equal(t, models.SlotFree, slot.Status, "all-day events must not block slots")
	}
}

func TestPublicSkipsHiddenCalendars(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()
	userID := seedUser(t, "ada")
	srcID, calID := seedPushSource(t, userID)

	cal, err := (&repository.GormCalendarRepo{}).GetByUserAndID(userID, calID)
	require.NoError(t, err)
	cal.Hidden = true
	require.NoError(t, (&repository.GormCalendarRepo{}).Update(cal))

	settings, err := svc.UpdateSettings(userID, models.AvailabilityUpdateInput{Enabled: boolPtr(true)})
	require.NoError(t, err)

	start := tomorrowAt(10, 0)
	seedEvent(t, srcID, calID, "secret", start, timePtr(start.Add(time.Hour)), false)

	view, err := svc.Public(settings.ShareToken, nil)
	require.NoError(t, err)
	assert.Equal(t, models.SlotFree, slotStatusByTime(view.Days[1].Slots)["10:00"],
		"hidden calendars stay out of the shared view")
}

func TestPublicDoesNotLeakOtherUsersEvents(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()
	owner := seedUser(t, "ada")
	other := seedUser(t, "grace")
	otherSrc, otherCal := seedPushSource(t, other)

	settings, err := svc.UpdateSettings(owner, models.AvailabilityUpdateInput{Enabled: boolPtr(true)})
	require.NoError(t, err)

	start := tomorrowAt(10, 0)
	seedEvent(t, otherSrc, otherCal, "their meeting", start, timePtr(start.Add(time.Hour)), false)

	view, err := svc.Public(settings.ShareToken, nil)
	require.NoError(t, err)
	assert.Equal(t, models.SlotFree, slotStatusByTime(view.Days[1].Slots)["10:00"])
}
