package availability

import (
	"fmt"
	"sort"
	"time"

	ical "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/utils"
)

// busyInterval is one merged stretch of busy time.
type busyInterval struct {
	Start time.Time
	End   time.Time
}

// BusyFeed renders the shared window as an iCalendar of opaque "Busy"
// blocks, so calendar apps can subscribe to the free/busy state without
// seeing any event details.
func (s *DefaultAvailabilityService) BusyFeed(token string) (string, error) {
	settings, err := s.resolveShared(token)
	if err != nil {
		return "", err
	}

	owner, err := s.Users.GetByID(settings.UserID)
	if err != nil {
		utils.GetLogger().Error("BusyFeed: failed to load owner", zap.Error(err))
		return "", fmt.Errorf("failed to load availability")
	}

	loc := config.Location()
	now := time.Now().In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, settings.DaysAhead)

	events, err := s.Events.ListByUserInRange(settings.UserID, start, end, false)
	if err != nil {
		utils.GetLogger().Error("BusyFeed: failed to load events", zap.Error(err))
		return "", fmt.Errorf("failed to load availability")
	}

	utils.AvailabilityLookupsTotal.Inc()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//DateStack//Busy Feed//EN")
	cal.SetXWRCalName(fmt.Sprintf("%s busy times", owner.Name))

	for _, iv := range mergeBusy(events, start, end) {
		uid := utils.HashToken(token+iv.Start.UTC().Format(time.RFC3339))[:16] + "@datestack"
		ev := cal.AddEvent(uid)
		ev.SetDtStampTime(now)
		ev.SetStartAt(iv.Start)
		ev.SetEndAt(iv.End)
		ev.SetSummary("Busy")
		ev.SetTimeTransparency(ical.TransparencyOpaque)
	}
	return cal.Serialize(), nil
}

// mergeBusy collapses the effective intervals of timed events into
// non-overlapping busy blocks, clipped to [from, to). Touching blocks
// combine into one.
func mergeBusy(events []models.Event, from, to time.Time) []busyInterval {
	intervals := make([]busyInterval, 0, len(events))
	for i := range events {
		if events[i].AllDay {
			continue
		}
		start, end := events[i].StartTime, events[i].EffectiveEnd()
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		if !end.After(start) {
			continue
		}
		intervals = append(intervals, busyInterval{Start: start, End: end})
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start.Before(intervals[j].Start) })

	var merged []busyInterval
	for _, iv := range intervals {
		if n := len(merged); n > 0 && !iv.Start.After(merged[n-1].End) {
			if iv.End.After(merged[n-1].End) {
				merged[n-1].End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
