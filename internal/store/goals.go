package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type goalRepo struct {
	pool *pgxpool.Pool
}

const goalColumns = `id, user_id, title, description, target_value, current_value,
	unit, status, category, deadline, created_at, updated_at, completed_at`

func scanGoal(row pgx.Row) (*Goal, error) {
	var g Goal
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.TargetValue,
		&g.CurrentValue, &g.Unit, &g.Status, &g.Category, &g.Deadline,
		&g.CreatedAt, &g.UpdatedAt, &g.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan goal: %w", err)
	}
	return &g, nil
}

func (r *goalRepo) ListByUser(ctx context.Context, userID int64) ([]Goal, error) {
	defer observeDB("goals.list")()
	rows, err := r.pool.Query(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (r *goalRepo) Get(ctx context.Context, userID, id int64) (*Goal, error) {
	defer observeDB("goals.get")()
	row := r.pool.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`,
		id, userID)
	return scanGoal(row)
}

func (r *goalRepo) Create(ctx context.Context, g *Goal) error {
	defer observeDB("goals.create")()
	return r.pool.QueryRow(ctx, `
		INSERT INTO goals (user_id, title, description, target_value, current_value,
			unit, status, category, deadline, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		g.UserID, g.Title, g.Description, g.TargetValue, g.CurrentValue,
		g.Unit, g.Status, g.Category, g.Deadline, g.CompletedAt).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

func (r *goalRepo) Update(ctx context.Context, g *Goal) error {
	defer observeDB("goals.update")()
	err := r.pool.QueryRow(ctx, `
		UPDATE goals
		SET title = $1, description = $2, target_value = $3, current_value = $4,
			unit = $5, status = $6, category = $7, deadline = $8,
			completed_at = $9, updated_at = now()
		WHERE id = $10 AND user_id = $11
		RETURNING updated_at`,
		g.Title, g.Description, g.TargetValue, g.CurrentValue, g.Unit,
		g.Status, g.Category, g.Deadline, g.CompletedAt, g.ID, g.UserID).
		Scan(&g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *goalRepo) Delete(ctx context.Context, userID, id int64) error {
	defer observeDB("goals.delete")()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
