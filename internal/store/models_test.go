package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoalProgressPercentage(t *testing.T) {
	g := &Goal{TargetValue: 100, CurrentValue: 25}
	assert.Equal(t, 25.0, g.ProgressPercentage())

	// Overshooting the target caps at 100.
	g.CurrentValue = 250
	assert.Equal(t, 100.0, g.ProgressPercentage())

	// A zero target must not divide by zero.
	g.TargetValue = 0
	assert.Equal(t, 0.0, g.ProgressPercentage())
}

func TestGoalIsOverdue(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	g := &Goal{Status: GoalStatusActive, Deadline: &past}
	assert.True(t, g.IsOverdue(now))

	g.Deadline = &future
	assert.False(t, g.IsOverdue(now))

	// Only active goals can be overdue.
	g.Deadline = &past
	g.Status = GoalStatusCompleted
	assert.False(t, g.IsOverdue(now))

	g.Status = GoalStatusActive
	g.Deadline = nil
	assert.False(t, g.IsOverdue(now))
}

func TestTimeEntryComputeDuration(t *testing.T) {
	start := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	end := start.Add(90*time.Minute + 30*time.Second)

	e := &TimeEntry{StartTime: start, EndTime: &end}
	e.ComputeDuration()
	assert.Equal(t, 90, e.DurationMinutes, "duration is whole minutes")

	// Open-ended entries have zero duration.
	e.EndTime = nil
	e.DurationMinutes = 42
	e.ComputeDuration()
	assert.Equal(t, 0, e.DurationMinutes)
}

func TestTimeEntryComputeDurationRecompute(t *testing.T) {
	start := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	e := &TimeEntry{StartTime: start, EndTime: &end, DurationMinutes: 999}

	e.ComputeDuration()
	assert.Equal(t, 30, e.DurationMinutes, "stale duration is replaced on save")
}
