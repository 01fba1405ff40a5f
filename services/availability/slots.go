package availability

import (
	"time"

	"github.com/sj7trunks/datestack/models"
)

// SlotDuration is the fixed width of every generated slot.
const SlotDuration = 30 * time.Minute

// GenerateSlots computes free/busy slots for each day in the half-open range
// [start, start+days). The working window of a day is [startHour:00,
// endHour:00) in the location of start, partitioned into consecutive
// 30-minute slots.
//
// A slot [slotStart, slotEnd) is busy when it overlaps at least one event's
// effective interval [evStart, evEnd), with evEnd defaulting to one hour
// after evStart. Intervals are half-open, so touching endpoints do not
// overlap. Callers validate startHour < endHour; the function itself has no
// failure path.
func GenerateSlots(startHour, endHour int, start time.Time, days int, events []models.Event) []models.DayAvailability {
	out := make([]models.DayAvailability, 0, days)

	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, day.Location())
		dayEnd := time.Date(day.Year(), day.Month(), day.Day(), endHour, 0, 0, 0, day.Location())

		// Events spanning midnight count on every day their effective
		// interval touches, so filter by interval, not by start date.
		dayEvents := overlapping(events, dayStart, dayEnd)

		var slots []models.TimeSlot
		for slotStart := dayStart; slotStart.Before(dayEnd); slotStart = slotStart.Add(SlotDuration) {
			slotEnd := slotStart.Add(SlotDuration)

			status := models.SlotFree
			for i := range dayEvents {
				if overlaps(slotStart, slotEnd, dayEvents[i].StartTime, dayEvents[i].EffectiveEnd()) {
					status = models.SlotBusy
					break
				}
			}

			slots = append(slots, models.TimeSlot{Start: slotStart, End: slotEnd, Status: status})
		}

		out = append(out, models.DayAvailability{
			Date:  day.Format("2006-01-02"),
			Slots: slots,
		})
	}

	return out
}

// overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func overlapping(events []models.Event, from, to time.Time) []models.Event {
	var filtered []models.Event
	for i := range events {
		if overlaps(from, to, events[i].StartTime, events[i].EffectiveEnd()) {
			filtered = append(filtered, events[i])
		}
	}
	return filtered
}
