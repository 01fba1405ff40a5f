package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sj7trunks/datestack/models"
)

var testDay = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func at(dayOffset, hour, min int) time.Time {
	return time.Date(2025, time.March, 10+dayOffset, hour, min, 0, 0, time.UTC)
}

func timedEvent(start, end time.Time) models.Event {
	return models.Event{Title: "meeting", StartTime: start, EndTime: &end}
}

func statuses(slots []models.TimeSlot) []models.SlotStatus {
	out := make([]models.SlotStatus, len(slots))
	for i, s := range slots {
		out[i] = s.Status
	}
	return out
}

func countBusy(slots []models.TimeSlot) int {
	n := 0
	for _, s := range slots {
		if s.Status == models.SlotBusy {
			n++
		}
	}
	return n
}

func TestGenerateSlotsNoEventsAllFree(t *testing.T) {
	days := GenerateSlots(8, 17, testDay, 1, nil)

	require.Len(t, days, 1)
	assert.Equal(t, "2025-03-10", days[0].Date)
	require.Len(t, days[0].Slots, 18)

	for _, slot := range days[0].Slots {
		assert.Equal(t, models.SlotFree, slot.Status)
	}
	assert.Equal(t, at(0, 8, 0), days[0].Slots[0].Start)
	assert.Equal(t, at(0, 17, 0), days[0].Slots[17].End)
}

func TestGenerateSlotsTiling(t *testing.T) {
	tests := []struct {
		name      string
		startHour int
		endHour   int
		wantSlots int
	}{
		{name: "standard working day", startHour: 9, endHour: 17, wantSlots: 16},
		{name: "single hour", startHour: 12, endHour: 13, wantSlots: 2},
		{name: "widest window", startHour: 0, endHour: 23, wantSlots: 46},
		{name: "early window", startHour: 6, endHour: 10, wantSlots: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := GenerateSlots(tt.startHour, tt.endHour, testDay, 1, nil)
			require.Len(t, days, 1)
			slots := days[0].Slots
			require.Len(t, slots, tt.wantSlots)

			assert.Equal(t, at(0, tt.startHour, 0), slots[0].Start)
			assert.Equal(t, testDay.Add(time.Duration(tt.endHour)*time.Hour), slots[len(slots)-1].End)

			for i, slot := range slots {
				assert.Equal(t, SlotDuration, slot.End.Sub(slot.Start))
				if i > 0 {
					assert.Equal(t, slots[i-1].End, slot.Start, "slots must tile without gaps")
				}
			}
		})
	}
}

func TestGenerateSlotsSingleEvent(t *testing.T) {
	event := timedEvent(at(0, 9, 0), at(0, 10, 0))
	days := GenerateSlots(8, 17, testDay, 1, []models.Event{event})

	require.Len(t, days, 1)
	slots := days[0].Slots
	require.Len(t, slots, 18)

	// 08:00 and 08:30 free, 09:00 and 09:30 busy, everything after free.
	want := []models.SlotStatus{
		models.SlotFree, models.SlotFree,
		models.SlotBusy, models.SlotBusy,
		models.SlotFree, models.SlotFree, models.SlotFree, models.SlotFree,
		models.SlotFree, models.SlotFree, models.SlotFree, models.SlotFree,
		models.SlotFree, models.SlotFree, models.SlotFree, models.SlotFree,
		models.SlotFree, models.SlotFree,
	}
	assert.Equal(t, want, statuses(slots))
}

func TestGenerateSlotsTouchingEndpointsDoNotOverlap(t *testing.T) {
	// One event ends exactly at 12:00, the next starts exactly at 12:30.
	// The slot between them stays free.
	events := []models.Event{
		timedEvent(at(0, 11, 0), at(0, 12, 0)),
		timedEvent(at(0, 12, 30), at(0, 13, 0)),
	}
	days := GenerateSlots(8, 17, testDay, 1, events)

	slots := days[0].Slots
	byStart := make(map[string]models.SlotStatus)
	for _, s := range slots {
		byStart[s.Start.Format("15:04")] = s.Status
	}

	assert.Equal(t, models.SlotBusy, byStart["11:00"])
	assert.Equal(t, models.SlotBusy, byStart["11:30"])
	assert.Equal(t, models.SlotFree, byStart["12:00"])
	assert.Equal(t, models.SlotBusy, byStart["12:30"])
	assert.Equal(t, models.SlotFree, byStart["13:00"])
}

func TestGenerateSlotsMissingEndDefaultsToOneHour(t *testing.T) {
	event := models.Event{Title: "open ended", StartTime: at(0, 14, 0)}
	days := GenerateSlots(8, 17, testDay, 1, []models.Event{event})

	slots := days[0].Slots
	assert.Equal(t, 2, countBusy(slots))
	assert.Equal(t, models.SlotBusy, slots[12].Status) // 14:00
	assert.Equal(t, models.SlotBusy, slots[13].Status) // 14:30
	assert.Equal(t, models.SlotFree, slots[14].Status) // 15:00
}

func TestGenerateSlotsEventSpanningMidnight(t *testing.T) {
	// 22:00 on day one until 01:00 on day two, with the widest window so
	// both sides of midnight are covered.
	event := timedEvent(at(0, 22, 0), at(1, 1, 0))
	days := GenerateSlots(0, 23, testDay, 2, []models.Event{event})

	require.Len(t, days, 2)
	day1, day2 := days[0].Slots, days[1].Slots
	require.Len(t, day1, 46)
	require.Len(t, day2, 46)

	assert.Equal(t, models.SlotFree, day1[43].Status) // 21:30
	assert.Equal(t, models.SlotBusy, day1[44].Status) // 22:00
	assert.Equal(t, models.SlotBusy, day1[45].Status) // 22:30
	assert.Equal(t, models.SlotBusy, day2[0].Status)  // 00:00
	assert.Equal(t, models.SlotBusy, day2[1].Status)  // 00:30
	assert.Equal(t, models.SlotFree, day2[2].Status)  // 01:00

	assert.Equal(t, 2, countBusy(day1))
	assert.Equal(t, 2, countBusy(day2))
}

func TestGenerateSlotsMidnightSpanWithinWorkingWindow(t *testing.T) {
	// An evening event crossing midnight must mark slots on both days even
	// though its start date is day one.
	event := timedEvent(at(0, 16, 30), at(1, 1, 0))
	days := GenerateSlots(0, 17, testDay, 2, []models.Event{event})

	require.Len(t, days, 2)
	day1, day2 := days[0].Slots, days[1].Slots

	assert.Equal(t, models.SlotBusy, day1[len(day1)-1].Status) // 16:30
	assert.Equal(t, models.SlotBusy, day2[0].Status)           // 00:00
	assert.Equal(t, models.SlotBusy, day2[1].Status)           // 00:30
	assert.Equal(t, models.SlotFree, day2[2].Status)           // 01:00
}

func TestGenerateSlotsOverlappingEventsCollapse(t *testing.T) {
	events := []models.Event{
		timedEvent(at(0, 10, 0), at(0, 11, 0)),
		timedEvent(at(0, 10, 15), at(0, 10, 45)),
		timedEvent(at(0, 10, 30), at(0, 12, 0)),
	}
	days := GenerateSlots(9, 13, testDay, 1, events)

	slots := days[0].Slots
	require.Len(t, slots, 8)
	assert.Equal(t, 4, countBusy(slots)) // 10:00 through 12:00
	for _, s := range slots {
		assert.Contains(t, []models.SlotStatus{models.SlotFree, models.SlotBusy}, s.Status)
	}
}

func TestGenerateSlotsDeterministic(t *testing.T) {
	events := []models.Event{
		timedEvent(at(0, 9, 0), at(0, 10, 0)),
		{Title: "open ended", StartTime: at(1, 14, 0)},
	}

	first := GenerateSlots(8, 18, testDay, 3, events)
	second := GenerateSlots(8, 18, testDay, 3, events)
	assert.Equal(t, first, second)
}

func TestGenerateSlotsEmptyRange(t *testing.T) {
	days := GenerateSlots(9, 17, testDay, 0, nil)
	assert.Empty(t, days)
}

func TestGenerateSlotsEventOutsideWindow(t *testing.T) {
	// Early morning event before the working window never shows up.
	event := timedEvent(at(0, 6, 0), at(0, 7, 0))
	days := GenerateSlots(9, 17, testDay, 1, []models.Event{event})

	assert.Equal(t, 0, countBusy(days[0].Slots))
}
