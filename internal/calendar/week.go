package calendar

import (
	"time"

	"fridge-planner/internal/expiry"
)

// Day is one column of the planning week.
type Day struct {
	Date      time.Time
	ISOKey    string // YYYY-MM-DD join key against plan entries
	Label     string
	DayNumber int
}

// WeekOf returns the 7-day week containing ref, anchored to the Sunday on or
// before it. Deterministic for a given ref; moving a week forward or back is
// WeekOf(ref ± 7 days).
func WeekOf(ref time.Time) [7]Day {
	start := expiry.Midnight(ref).AddDate(0, 0, -int(ref.Weekday()))

	var week [7]Day
	for i := range week {
		d := start.AddDate(0, 0, i)
		week[i] = Day{
			Date:      d,
			ISOKey:    expiry.FormatDate(d),
			Label:     d.Weekday().String(),
			DayNumber: d.Day(),
		}
	}
	return week
}
