package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository reads identity rows owned by the auth collaborator.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// SessionRepository resolves session tokens into users.
type SessionRepository interface {
	GetUser(ctx context.Context, token string, now time.Time) (*User, error)
}

// TokenRepository reads stored OAuth tokens and app credentials.
type TokenRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]SocialToken, error)
	AppByID(ctx context.Context, id int64) (*SocialApp, error)
	AppByProvider(ctx context.Context, provider string) (*SocialApp, error)
}

// GoalRepository persists goals.
type GoalRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]Goal, error)
	Get(ctx context.Context, userID, id int64) (*Goal, error)
	Create(ctx context.Context, g *Goal) error
	Update(ctx context.Context, g *Goal) error
	Delete(ctx context.Context, userID, id int64) error
}

// AchievementRepository persists achievements.
type AchievementRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]Achievement, error)
	Create(ctx context.Context, a *Achievement) error
}

// TimeEntryRepository persists time-tracking entries.
type TimeEntryRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]TimeEntry, error)
	Get(ctx context.Context, userID, id int64) (*TimeEntry, error)
	Create(ctx context.Context, e *TimeEntry) error
	Update(ctx context.Context, e *TimeEntry) error
	Delete(ctx context.Context, userID, id int64) error
}

// HabitRepository persists habits and their completions.
type HabitRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]Habit, error)
	Get(ctx context.Context, userID, id int64) (*Habit, error)
	Create(ctx context.Context, h *Habit) error
	Update(ctx context.Context, h *Habit) error
	Delete(ctx context.Context, userID, id int64) error

	ListCompletions(ctx context.Context, habitID int64) ([]HabitCompletion, error)
	ToggleCompletion(ctx context.Context, habitID int64, date time.Time) (*HabitCompletion, error)
}

// Store aggregates repositories backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool

	Users        UserRepository
	Sessions     SessionRepository
	Tokens       TokenRepository
	Goals        GoalRepository
	Achievements AchievementRepository
	TimeEntries  TimeEntryRepository
	Habits       HabitRepository
}

// New wires concrete repository implementations with a shared connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:         pool,
		Users:        &userRepo{pool: pool},
		Sessions:     &sessionRepo{pool: pool},
		Tokens:       &tokenRepo{pool: pool},
		Goals:        &goalRepo{pool: pool},
		Achievements: &achievementRepo{pool: pool},
		TimeEntries:  &timeEntryRepo{pool: pool},
		Habits:       &habitRepo{pool: pool},
	}
}

// HealthCheck verifies that the underlying database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	defer observeDB("healthcheck")()
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
