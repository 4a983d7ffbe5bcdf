package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type tokenRepo struct {
	pool *pgxpool.Pool
}

// ListByUser returns every stored token for the user, newest row first.
// The resolver walks the list with its fallback tiers; ordering by id
// descending matches the auth collaborator's "latest consent wins" rule.
func (r *tokenRepo) ListByUser(ctx context.Context, userID int64) ([]SocialToken, error) {
	defer observeDB("tokens.list")()
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, app_id, account_provider, app_provider,
		       token, token_secret, expires_at
		FROM social_tokens
		WHERE user_id = $1
		ORDER BY id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	var tokens []SocialToken
	for rows.Next() {
		var t SocialToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.AppID, &t.AccountProvider,
			&t.AppProvider, &t.Token, &t.TokenSecret, &t.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *tokenRepo) AppByID(ctx context.Context, id int64) (*SocialApp, error) {
	defer observeDB("apps.get")()
	row := r.pool.QueryRow(ctx,
		`SELECT id, provider, client_id, secret FROM social_apps WHERE id = $1`, id)
	return scanApp(row)
}

func (r *tokenRepo) AppByProvider(ctx context.Context, provider string) (*SocialApp, error) {
	defer observeDB("apps.get_by_provider")()
	row := r.pool.QueryRow(ctx, `
		SELECT id, provider, client_id, secret
		FROM social_apps
		WHERE provider = $1
		ORDER BY id
		LIMIT 1`,
		provider)
	return scanApp(row)
}

func scanApp(row pgx.Row) (*SocialApp, error) {
	var a SocialApp
	err := row.Scan(&a.ID, &a.Provider, &a.ClientID, &a.Secret)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan app: %w", err)
	}
	return &a, nil
}
