package calendar

import (
	"testing"
	"time"
)

func TestWeekOf(t *testing.T) {
	t.Run("MidWeekReference", func(t *testing.T) {
		// Wednesday 2024-03-13; the week runs Sunday the 10th through
		// Saturday the 16th.
		ref := time.Date(2024, time.March, 13, 15, 30, 0, 0, time.Local)
		week := WeekOf(ref)

		if week[0].ISOKey != "2024-03-10" {
			t.Errorf("Expected week to start on '2024-03-10', got '%s'", week[0].ISOKey)
		}
		if week[6].ISOKey != "2024-03-16" {
			t.Errorf("Expected week to end on '2024-03-16', got '%s'", week[6].ISOKey)
		}
		if week[0].Label != "Sunday" {
			t.Errorf("Expected first day label 'Sunday', got '%s'", week[0].Label)
		}
		if week[6].Label != "Saturday" {
			t.Errorf("Expected last day label 'Saturday', got '%s'", week[6].Label)
		}
	})

	t.Run("SundayIsItsOwnAnchor", func(t *testing.T) {
		ref := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.Local)
		week := WeekOf(ref)
		if week[0].ISOKey != "2024-03-10" {
			t.Errorf("Expected Sunday to anchor its own week, got '%s'", week[0].ISOKey)
		}
	})

	t.Run("EveryDayOfWeekSharesTheWindow", func(t *testing.T) {
		base := WeekOf(time.Date(2024, time.March, 10, 0, 0, 0, 0, time.Local))
		for offset := 1; offset < 7; offset++ {
			ref := time.Date(2024, time.March, 10+offset, 12, 0, 0, 0, time.Local)
			week := WeekOf(ref)
			if week[0].ISOKey != base[0].ISOKey {
				t.Errorf("Day offset %d: expected anchor '%s', got '%s'", offset, base[0].ISOKey, week[0].ISOKey)
			}
		}
	})

	t.Run("AdjacentWeeks", func(t *testing.T) {
		ref := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.Local)
		next := WeekOf(ref.AddDate(0, 0, 7))
		prev := WeekOf(ref.AddDate(0, 0, -7))

		if next[0].ISOKey != "2024-03-17" {
			t.Errorf("Expected next week anchor '2024-03-17', got '%s'", next[0].ISOKey)
		}
		if prev[0].ISOKey != "2024-03-03" {
			t.Errorf("Expected previous week anchor '2024-03-03', got '%s'", prev[0].ISOKey)
		}
	})

	t.Run("MonthBoundary", func(t *testing.T) {
		// Sunday 2024-03-31 anchors a week that crosses into April.
		week := WeekOf(time.Date(2024, time.March, 31, 0, 0, 0, 0, time.Local))
		if week[0].ISOKey != "2024-03-31" {
			t.Errorf("Expected anchor '2024-03-31', got '%s'", week[0].ISOKey)
		}
		if week[6].ISOKey != "2024-04-06" {
			t.Errorf("Expected week end '2024-04-06', got '%s'", week[6].ISOKey)
		}
		if week[1].DayNumber != 1 {
			t.Errorf("Expected April 1st day number 1, got %d", week[1].DayNumber)
		}
	})
}
