package events

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/utils"
)

const (
	icsFetchTimeout = 30 * time.Second
	icsMaxBodyBytes = 10 << 20

	// icsWindowDays bounds how far recurrence expansion looks ahead.
	icsWindowDays = 90

	// maxOccurrences caps expansion per event so a broken RRULE cannot
	// flood the database.
	maxOccurrences = 1000

	icsRefreshParallel = 4
)

var icsClient = &http.Client{Timeout: icsFetchTimeout}

// RefreshAllICS re-fetches every ICS subscription, a few at a time. Failures
// are recorded on the source and logged, never fatal.
func (s *DefaultEventService) RefreshAllICS(ctx context.Context) {
	sources, err := s.Sources.ListICS()
	if err != nil {
		utils.GetLogger().Error("RefreshAllICS: failed to list sources", zap.Error(err))
		return
	}
	if len(sources) == 0 {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(icsRefreshParallel)
	for i := range sources {
		src := sources[i]
		g.Go(func() error {
			if _, err := s.refreshICS(ctx, &src); err != nil {
				utils.GetLogger().Warn("RefreshAllICS: refresh failed",
					zap.String("source", src.Name), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

// refreshICS runs one refresh and records the outcome on the source row.
func (s *DefaultEventService) refreshICS(ctx context.Context, src *models.CalendarSource) (*models.SyncResult, error) {
	result, err := s.doRefresh(ctx, src)
	now := time.Now()
	if err != nil {
		src.LastError = err.Error()
		if uerr := s.Sources.Update(src); uerr != nil {
			utils.GetLogger().Error("refreshICS: failed to record error", zap.Error(uerr))
		}
		utils.ICSRefreshTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	src.LastSyncedAt = &now
	src.LastError = ""
	if uerr := s.Sources.Update(src); uerr != nil {
		utils.GetLogger().Error("refreshICS: failed to update source", zap.Error(uerr))
	}
	utils.ICSRefreshTotal.WithLabelValues("ok").Inc()
	return result, nil
}

func (s *DefaultEventService) doRefresh(ctx context.Context, src *models.CalendarSource) (*models.SyncResult, error) {
	body, err := fetchICS(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ics feed: %w", err)
	}

	loc := config.Location()
	runStart := time.Now()
	// Expansion reaches one day back so running events survive the sweep.
	today := startOfDay(runStart.In(loc))
	windowStart := today.AddDate(0, 0, -1)
	windowEnd := today.AddDate(0, 0, icsWindowDays)

	occurrences := expandCalendar(cal, windowStart, windowEnd, loc)

	calendars := make(map[string]*models.Calendar)
	calRow, err := s.calendarFor(src.UserID, src.ID, src.Name, calendars)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve calendar: %w", err)
	}

	synced := 0
	for _, occ := range occurrences {
		err := s.upsertEvent(&models.Event{
			SourceID:   src.ID,
			CalendarID: calRow.ID,
			ExternalID: occ.Key,
			Title:      occ.Title,
			StartTime:  occ.Start,
			EndTime:    occ.End,
			AllDay:     occ.AllDay,
			Location:   occ.Location,
			Notes:      occ.Notes,
			SyncedAt:   runStart,
		})
		if err != nil {
			return nil, err
		}
		synced++
	}

	removed, err := s.Events.DeleteStale(src.ID, windowStart, runStart)
	if err != nil {
		return nil, err
	}

	utils.EventsSyncedTotal.Add(float64(synced))
	return &models.SyncResult{
		EventsSynced:  synced,
		EventsDeleted: int(removed),
		SourceID:      src.ID,
	}, nil
}

func fetchICS(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build ics request: %w", err)
	}

	resp, err := icsClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ics feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ics feed returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, icsMaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read ics feed: %w", err)
	}
	return body, nil
}

// occurrence is one concrete event instance produced by expansion.
type occurrence struct {
	Key      string
	Title    string
	Start    time.Time
	End      *time.Time
	AllDay   bool
	Location string
	Notes    string
}

// expandCalendar turns the calendar's VEVENTs into concrete occurrences
// within [from, to). RECURRENCE-ID components override single instances of
// their base event instead of appearing on their own.
func expandCalendar(cal *ical.Calendar, from, to time.Time, loc *time.Location) []occurrence {
	overrides := make(map[string]map[int64]*ical.VEvent)
	var bases []*ical.VEvent

	for _, ve := range cal.Events() {
		if rid := ve.GetProperty("RECURRENCE-ID"); rid != nil {
			if t, err := parseICALTime(rid.Value); err == nil {
				uid := propValue(ve, ical.ComponentPropertyUniqueId)
				if overrides[uid] == nil {
					overrides[uid] = make(map[int64]*ical.VEvent)
				}
				overrides[uid][t.Unix()] = ve
				continue
			}
		}
		bases = append(bases, ve)
	}

	var out []occurrence
	for _, ve := range bases {
		out = append(out, expandVEvent(ve, overrides, from, to, loc)...)
	}
	return out
}

func expandVEvent(ve *ical.VEvent, overrides map[string]map[int64]*ical.VEvent, from, to time.Time, loc *time.Location) []occurrence {
	summary := propValue(ve, ical.ComponentPropertySummary)
	uid := propValue(ve, ical.ComponentPropertyUniqueId)
	if uid == "" {
		uid = utils.HashToken(summary)
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return nil
	}
	allDay := isAllDay(ve)

	var end time.Time
	if allDay {
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		end = start.Add(24 * time.Hour)
	} else {
		end, err = ve.GetEndAt()
		if err != nil || !end.After(start) {
			end = start.Add(time.Hour)
		}
	}

	rawRule := ""
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		rawRule = p.Value
	}

	if rawRule == "" {
		if !intervalsOverlap(start, end, from, to) {
			return nil
		}
		return []occurrence{makeOccurrence(ve, uid, start, end, allDay, loc)}
	}

	r, err := rrule.StrToRRule(rawRule)
	if err != nil {
		utils.GetLogger().Warn("expandVEvent: bad RRULE",
			zap.String("uid", uid), zap.String("rrule", rawRule), zap.Error(err))
		return nil
	}
	r.DTStart(start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range exDates(ve) {
		set.ExDate(ex.In(start.Location()))
	}

	times := set.Between(from.In(start.Location()), to.In(start.Location()), true)
	if len(times) > maxOccurrences {
		times = times[:maxOccurrences]
	}

	duration := end.Sub(start)
	out := make([]occurrence, 0, len(times))
	for _, occStart := range times {
		occEnd := occStart.Add(duration)
		instance := ve

		if ov := overrides[uid][occStart.Unix()]; ov != nil {
			if oStart, err := ov.GetStartAt(); err == nil {
				occStart = oStart
				if oEnd, err := ov.GetEndAt(); err == nil && oEnd.After(oStart) {
					occEnd = oEnd
				} else {
					occEnd = oStart.Add(duration)
				}
				instance = ov
			}
		}

		if allDay {
			occStart = time.Date(occStart.Year(), occStart.Month(), occStart.Day(), 0, 0, 0, 0, loc)
			occEnd = occStart.Add(24 * time.Hour)
		}

		out = append(out, makeOccurrence(instance, uid, occStart, occEnd, allDay, loc))
	}
	return out
}

func makeOccurrence(ve *ical.VEvent, uid string, start, end time.Time, allDay bool, loc *time.Location) occurrence {
	startLocal := start.In(loc)
	endLocal := end.In(loc)

	title := strings.TrimSpace(propValue(ve, ical.ComponentPropertySummary))
	if title == "" {
		title = "Untitled"
	}

	return occurrence{
		Key:      uid + "/" + startLocal.Format(time.RFC3339),
		Title:    title,
		Start:    startLocal,
		End:      &endLocal,
		AllDay:   allDay,
		Location: propValue(ve, ical.ComponentPropertyLocation),
		Notes:    propValue(ve, ical.ComponentPropertyDescription),
	}
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

// isAllDay checks whether DTSTART carries a bare date, either through the
// VALUE=DATE parameter or a value without a time part.
func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(p.Value, "T")
}

func exDates(ve *ical.VEvent) []time.Time {
	var out []time.Time
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICALTime(part); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// parseICALTime handles the basic ICS date and date-time shapes found in
// EXDATE and RECURRENCE-ID values.
func parseICALTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return time.Time{}, fmt.Errorf("empty time value")
	case strings.HasSuffix(value, "Z"):
		return time.Parse("20060102T150405Z", value)
	case strings.Contains(value, "T"):
		return time.Parse("20060102T150405", value)
	default:
		return time.Parse("20060102", value)
	}
}

func intervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
