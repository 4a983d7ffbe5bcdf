package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type timeEntryRepo struct {
	pool *pgxpool.Pool
}

const timeEntryColumns = `id, user_id, activity_type, description, start_time,
	end_time, duration_minutes, created_at`

func scanTimeEntry(row pgx.Row) (*TimeEntry, error) {
	var e TimeEntry
	err := row.Scan(&e.ID, &e.UserID, &e.ActivityType, &e.Description,
		&e.StartTime, &e.EndTime, &e.DurationMinutes, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan time entry: %w", err)
	}
	return &e, nil
}

func (r *timeEntryRepo) ListByUser(ctx context.Context, userID int64) ([]TimeEntry, error) {
	defer observeDB("time_entries.list")()
	rows, err := r.pool.Query(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE user_id = $1 ORDER BY start_time DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *timeEntryRepo) Get(ctx context.Context, userID, id int64) (*TimeEntry, error) {
	defer observeDB("time_entries.get")()
	row := r.pool.QueryRow(ctx,
		`SELECT `+timeEntryColumns+` FROM time_entries WHERE id = $1 AND user_id = $2`,
		id, userID)
	return scanTimeEntry(row)
}

// Create persists a new entry. The duration is recomputed here so callers
// can never store an inconsistent start/end/duration triple.
func (r *timeEntryRepo) Create(ctx context.Context, e *TimeEntry) error {
	defer observeDB("time_entries.create")()
	e.ComputeDuration()
	return r.pool.QueryRow(ctx, `
		INSERT INTO time_entries (user_id, activity_type, description, start_time,
			end_time, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		e.UserID, e.ActivityType, e.Description, e.StartTime, e.EndTime,
		e.DurationMinutes).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *timeEntryRepo) Update(ctx context.Context, e *TimeEntry) error {
	defer observeDB("time_entries.update")()
	e.ComputeDuration()
	tag, err := r.pool.Exec(ctx, `
		UPDATE time_entries
		SET activity_type = $1, description = $2, start_time = $3,
			end_time = $4, duration_minutes = $5
		WHERE id = $6 AND user_id = $7`,
		e.ActivityType, e.Description, e.StartTime, e.EndTime,
		e.DurationMinutes, e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("update time entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *timeEntryRepo) Delete(ctx context.Context, userID, id int64) error {
	defer observeDB("time_entries.delete")()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM time_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete time entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
