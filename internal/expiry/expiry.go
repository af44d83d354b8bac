package expiry

import (
	"math"
	"time"
)

// Status classifies how urgent an item's expiry date is relative to a
// reference day.
type Status int

const (
	NoDate Status = iota
	Expired
	DueToday
	DueTomorrow
	DueThisWeek
	FarFuture
)

// String returns a short human-readable label for the status.
func (s Status) String() string {
	switch s {
	case NoDate:
		return "no date"
	case Expired:
		return "expired"
	case DueToday:
		return "due today"
	case DueTomorrow:
		return "due tomorrow"
	case DueThisWeek:
		return "due this week"
	case FarFuture:
		return "far future"
	default:
		return "unknown"
	}
}

const isoDate = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a local calendar date.
// All ISO date strings in the application go through here and FormatDate,
// never through ad-hoc parsing at call sites.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(isoDate, s, time.Local)
}

// FormatDate renders t's own calendar fields as YYYY-MM-DD. It deliberately
// avoids any UTC conversion, which would shift the date by one near midnight.
func FormatDate(t time.Time) string {
	return t.Format(isoDate)
}

// Midnight truncates t to the start of its own calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the number of whole days from today until target, with
// both sides normalized to midnight first. Rounding absorbs DST transitions
// that make a calendar day 23 or 25 hours long.
func DaysUntil(target, today time.Time) int {
	diff := Midnight(target).Sub(Midnight(today))
	return int(math.Round(diff.Hours() / 24))
}

// Classify derives the urgency status of an expiry date relative to today.
// It is a pure function: the caller supplies the reference day explicitly,
// and identical inputs always yield the same status.
func Classify(expiresOn *time.Time, today time.Time) Status {
	if expiresOn == nil {
		return NoDate
	}
	switch d := DaysUntil(*expiresOn, today); {
	case d < 0:
		return Expired
	case d == 0:
		return DueToday
	case d == 1:
		return DueTomorrow
	case d <= 7:
		return DueThisWeek
	default:
		return FarFuture
	}
}

// SameDay reports whether a and b fall on the same calendar day. Two nil
// dates are considered equal.
func SameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Midnight(*a).Equal(Midnight(*b))
}
