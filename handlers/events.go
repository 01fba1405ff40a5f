package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sj7trunks/datestack/config"
	"github.com/sj7trunks/datestack/middleware"
	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/services/events"
)

// defaultListDays is the window served when no range is given.
const defaultListDays = 14

// ListEventsHandler handles GET /api/events?start=&end=.
func (eh *EventHandler) ListEventsHandler(c *gin.Context) {
	loc := config.Location()
	now := time.Now().In(loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, defaultListDays)

	var err error
	if raw := c.Query("start"); raw != "" {
		if from, err = parseTimeParam(raw, loc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be RFC3339 or YYYY-MM-DD"})
			return
		}
		to = from.AddDate(0, 0, defaultListDays)
	}
	if raw := c.Query("end"); raw != "" {
		if to, err = parseTimeParam(raw, loc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be RFC3339 or YYYY-MM-DD"})
			return
		}
	}
	includeHidden := c.Query("include_hidden") == "true"

	list, err := eh.Events.List(middleware.UserID(c), from, to, includeHidden)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// parseTimeParam accepts RFC3339 timestamps and bare dates, the latter
// interpreted at midnight in the server timezone.
func parseTimeParam(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", raw, loc)
}

// ListCalendarsHandler handles GET /api/calendars.
func (eh *EventHandler) ListCalendarsHandler(c *gin.Context) {
	cals, err := eh.Events.ListCalendars(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cals)
}

// UpdateCalendarHandler handles PATCH /api/calendars/:id.
func (eh *EventHandler) UpdateCalendarHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid calendar id"})
		return
	}

	var input models.CalendarUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	cal, err := eh.Events.UpdateCalendar(middleware.UserID(c), uint(id), input)
	if err != nil {
		if errors.Is(err, events.ErrCalendarNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cal)
}
