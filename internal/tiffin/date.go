package tiffin

import "time"

// DefaultDateLayout is the display format stamped on new cart lines.
const DefaultDateLayout = "Mon, 02 Jan 2006"

// UpcomingDate returns the next calendar date falling on day, strictly after now.
func UpcomingDate(now time.Time, day time.Weekday) time.Time {
	ahead := (int(day) - int(now.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	y, m, d := now.AddDate(0, 0, ahead).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
