// Package habits computes completion streaks for habit tracking.
//
// Streaks are measured in whole days over the completion records of a
// single habit. Records marked as missed do not count; only rows with
// Completed set contribute. The database enforces one record per habit
// and day, so the functions never see duplicate dates for live data but
// tolerate them anyway.
package habits

import (
	"sort"
	"time"

	"github.com/sriramramnath/EducationOS/internal/store"
)

// CurrentStreak returns the number of consecutive completed days ending
// at today. A habit not completed today has a current streak of zero,
// regardless of earlier completions.
func CurrentStreak(today time.Time, completions []store.HabitCompletion) int {
	dates := completedDates(completions)
	if len(dates) == 0 {
		return 0
	}
	sort.Slice(dates, func(i, j int) bool { return dates[j].Before(dates[i]) })

	streak := 0
	current := dateOnly(today)
	for _, d := range dates {
		if d.Equal(current) {
			streak++
			current = current.AddDate(0, 0, -1)
		} else if d.Before(current) {
			break
		}
	}
	return streak
}

// LongestStreak returns the longest run of consecutive completed days
// in the habit's history.
func LongestStreak(completions []store.HabitCompletion) int {
	dates := completedDates(completions)
	if len(dates) == 0 {
		return 0
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	maxStreak := 0
	streak := 0
	var prev time.Time
	for i, d := range dates {
		switch {
		case i == 0:
			streak = 1
		case d.Sub(prev) == 24*time.Hour:
			streak++
		case d.Equal(prev):
			// duplicate date, ignore
		default:
			if streak > maxStreak {
				maxStreak = streak
			}
			streak = 1
		}
		prev = d
	}
	if streak > maxStreak {
		maxStreak = streak
	}
	return maxStreak
}

// completedDates extracts the normalized dates of the completed rows.
func completedDates(completions []store.HabitCompletion) []time.Time {
	dates := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		if c.Completed {
			dates = append(dates, dateOnly(c.Date))
		}
	}
	return dates
}

// dateOnly strips the time-of-day component, keeping the civil date in
// UTC so day arithmetic is exact.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
