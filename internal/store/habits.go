package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type habitRepo struct {
	pool *pgxpool.Pool
}

const habitColumns = `id, user_id, name, description, frequency, target_count,
	color, icon, is_active, created_at, updated_at`

func scanHabit(row pgx.Row) (*Habit, error) {
	var h Habit
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.Frequency,
		&h.TargetCount, &h.Color, &h.Icon, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan habit: %w", err)
	}
	return &h, nil
}

func (r *habitRepo) ListByUser(ctx context.Context, userID int64) ([]Habit, error) {
	defer observeDB("habits.list")()
	rows, err := r.pool.Query(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func (r *habitRepo) Get(ctx context.Context, userID, id int64) (*Habit, error) {
	defer observeDB("habits.get")()
	row := r.pool.QueryRow(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = $1 AND user_id = $2`,
		id, userID)
	return scanHabit(row)
}

func (r *habitRepo) Create(ctx context.Context, h *Habit) error {
	defer observeDB("habits.create")()
	return r.pool.QueryRow(ctx, `
		INSERT INTO habits (user_id, name, description, frequency, target_count,
			color, icon, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		h.UserID, h.Name, h.Description, h.Frequency, h.TargetCount,
		h.Color, h.Icon, h.IsActive).
		Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
}

func (r *habitRepo) Update(ctx context.Context, h *Habit) error {
	defer observeDB("habits.update")()
	err := r.pool.QueryRow(ctx, `
		UPDATE habits
		SET name = $1, description = $2, frequency = $3, target_count = $4,
			color = $5, icon = $6, is_active = $7, updated_at = now()
		WHERE id = $8 AND user_id = $9
		RETURNING updated_at`,
		h.Name, h.Description, h.Frequency, h.TargetCount, h.Color,
		h.Icon, h.IsActive, h.ID, h.UserID).
		Scan(&h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *habitRepo) Delete(ctx context.Context, userID, id int64) error {
	defer observeDB("habits.delete")()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM habits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCompletions returns every completion for the habit, newest date first.
func (r *habitRepo) ListCompletions(ctx context.Context, habitID int64) ([]HabitCompletion, error) {
	defer observeDB("habit_completions.list")()
	rows, err := r.pool.Query(ctx, `
		SELECT id, habit_id, date, completed, notes, created_at
		FROM habit_completions
		WHERE habit_id = $1
		ORDER BY date DESC`,
		habitID)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var completions []HabitCompletion
	for rows.Next() {
		var c HabitCompletion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.Date, &c.Completed,
			&c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// ToggleCompletion flips the completion flag for the given calendar day,
// creating a completed record when none exists yet. The (habit, date)
// uniqueness constraint makes the upsert race-free.
func (r *habitRepo) ToggleCompletion(ctx context.Context, habitID int64, date time.Time) (*HabitCompletion, error) {
	defer observeDB("habit_completions.toggle")()
	var c HabitCompletion
	err := r.pool.QueryRow(ctx, `
		INSERT INTO habit_completions (habit_id, date, completed)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (habit_id, date)
		DO UPDATE SET completed = NOT habit_completions.completed
		RETURNING id, habit_id, date, completed, notes, created_at`,
		habitID, date).
		Scan(&c.ID, &c.HabitID, &c.Date, &c.Completed, &c.Notes, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("toggle completion: %w", err)
	}
	return &c, nil
}
