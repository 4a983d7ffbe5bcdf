package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type achievementRepo struct {
	pool *pgxpool.Pool
}

func (r *achievementRepo) ListByUser(ctx context.Context, userID int64) ([]Achievement, error) {
	defer observeDB("achievements.list")()
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, goal_id, title, description, icon, unlocked_at
		FROM achievements
		WHERE user_id = $1
		ORDER BY unlocked_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	var achievements []Achievement
	for rows.Next() {
		var a Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.GoalID, &a.Title,
			&a.Description, &a.Icon, &a.UnlockedAt); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

func (r *achievementRepo) Create(ctx context.Context, a *Achievement) error {
	defer observeDB("achievements.create")()
	return r.pool.QueryRow(ctx, `
		INSERT INTO achievements (user_id, goal_id, title, description, icon)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, unlocked_at`,
		a.UserID, a.GoalID, a.Title, a.Description, a.Icon).
		Scan(&a.ID, &a.UnlockedAt)
}
