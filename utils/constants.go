// File: utils/constants.go
package utils

// CalendarPalette holds the hex colors assigned to calendars in rotation as
// new calendar names appear during sync.
var CalendarPalette = []string{
	"#3B82F6", // blue
	"#10B981", // emerald
	"#F59E0B", // amber
	"#EF4444", // red
	"#8B5CF6", // violet
	"#EC4899", // pink
	"#14B8A6", // teal
	"#F97316", // orange
}

// DefaultCalendarColor is used when the palette cannot be consulted.
const DefaultCalendarColor = "#3B82F6"

// PickColor returns the palette color for the nth calendar created.
func PickColor(n int) string {
	if len(CalendarPalette) == 0 {
		return DefaultCalendarColor
	}
	if n < 0 {
		n = -n
	}
	return CalendarPalette[n%len(CalendarPalette)]
}
