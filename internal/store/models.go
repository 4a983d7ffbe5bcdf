package store

import "time"

// User is an identity row owned by the external auth collaborator.
// The dashboard only ever reads users; accounts are created by the
// OAuth signup flow.
type User struct {
	ID        int64
	Email     string
	Name      string
	Picture   string
	CreatedAt time.Time
}

// SocialApp holds the OAuth client credentials for one provider, as
// configured by an operator.
type SocialApp struct {
	ID       int64
	Provider string
	ClientID string
	Secret   string
}

// SocialToken is a stored OAuth token belonging to one user.
//
// AccountProvider and AppProvider are the provider labels recorded by the
// auth collaborator at consent time. Legacy imports left some rows with a
// numeric account provider, so multiple rows per user are possible and at
// most one is correct per external service. Rows are never mutated here;
// refresh is delegated to the oauth2 client.
type SocialToken struct {
	ID              int64
	UserID          int64
	AppID           *int64
	AccountProvider string
	AppProvider     string
	Token           string
	TokenSecret     string
	ExpiresAt       *time.Time
}

// GoalStatus values accepted for Goal.Status.
const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusPaused    = "paused"
	GoalStatusCancelled = "cancelled"
)

// Goal is a user-defined target with measurable progress.
type Goal struct {
	ID           int64
	UserID       int64
	Title        string
	Description  string
	TargetValue  float64
	CurrentValue float64
	Unit         string
	Status       string
	Category     string
	Deadline     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// ProgressPercentage reports completion toward the target, capped at 100.
// A zero target yields 0 rather than dividing by zero.
func (g *Goal) ProgressPercentage() float64 {
	if g.TargetValue == 0 {
		return 0
	}
	pct := g.CurrentValue / g.TargetValue * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// IsOverdue reports whether an active goal has passed its deadline.
func (g *Goal) IsOverdue(now time.Time) bool {
	if g.Deadline == nil || g.Status != GoalStatusActive {
		return false
	}
	return now.After(*g.Deadline)
}

// Achievement is an unlocked milestone, optionally tied to a goal.
type Achievement struct {
	ID          int64
	UserID      int64
	GoalID      *int64
	Title       string
	Description string
	Icon        string
	UnlockedAt  time.Time
}

// Activity types accepted for TimeEntry.ActivityType.
const (
	ActivityStudy    = "study"
	ActivityWork     = "work"
	ActivityExercise = "exercise"
	ActivityBreak    = "break"
	ActivityOther    = "other"
)

// TimeEntry records one tracked block of time.
type TimeEntry struct {
	ID              int64
	UserID          int64
	ActivityType    string
	Description     string
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes int
	CreatedAt       time.Time
}

// ComputeDuration recomputes DurationMinutes from the start/end pair.
// Entries without an end time keep a zero duration. Called on every save
// so edits to either endpoint are always reflected.
func (e *TimeEntry) ComputeDuration() {
	if e.EndTime == nil {
		e.DurationMinutes = 0
		return
	}
	e.DurationMinutes = int(e.EndTime.Sub(e.StartTime).Minutes())
}

// Habit frequencies.
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
	FrequencyCustom = "custom"
)

// Habit is a recurring practice the user wants to keep up.
type Habit struct {
	ID          int64
	UserID      int64
	Name        string
	Description string
	Frequency   string
	TargetCount int
	Color       string
	Icon        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HabitCompletion marks one calendar day for a habit. Date carries only
// the calendar day; the unique (habit, date) pair is enforced by the
// schema.
type HabitCompletion struct {
	ID        int64
	HabitID   int64
	Date      time.Time
	Completed bool
	Notes     string
	CreatedAt time.Time
}
