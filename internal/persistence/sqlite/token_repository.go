package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/desk-booking/internal/persistence"
)

// TokenRepository implements persistence.TokenRepository using SQLite.
type TokenRepository struct {
	pool *ConnectionPool
}

// NewTokenRepository creates a new SQLite token repository.
func NewTokenRepository(pool *ConnectionPool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// CreateToken stores a freshly issued bearer token.
func (r *TokenRepository) CreateToken(ctx context.Context, token persistence.AuthToken) error {
	if token.Token == "" || token.Username == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO auth_tokens (token, username, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, token.Token, token.Username, formatTime(token.CreatedAt), formatTime(token.ExpiresAt))
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetToken retrieves a token row by its opaque value.
func (r *TokenRepository) GetToken(ctx context.Context, token string) (persistence.AuthToken, error) {
	if token == "" {
		return persistence.AuthToken{}, persistence.ErrNotFound
	}

	var row persistence.AuthToken
	var createdStr, expiresStr string
	err := r.pool.db.QueryRowContext(ctx, `
		SELECT token, username, created_at, expires_at
		FROM auth_tokens
		WHERE token = ?
	`, token).Scan(&row.Token, &row.Username, &createdStr, &expiresStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.AuthToken{}, persistence.ErrNotFound
		}
		return persistence.AuthToken{}, mapError(err)
	}

	created, err := parseTime(createdStr)
	if err != nil {
		return persistence.AuthToken{}, err
	}
	expires, err := parseTime(expiresStr)
	if err != nil {
		return persistence.AuthToken{}, err
	}
	row.CreatedAt = created
	row.ExpiresAt = expires
	return row, nil
}

// DeleteToken removes a token. Deleting an absent token is a no-op, which
// makes the validation path's delete-on-expiry safe to race.
func (r *TokenRepository) DeleteToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := r.pool.db.ExecContext(ctx, "DELETE FROM auth_tokens WHERE token = ?", token); err != nil {
		return mapError(err)
	}
	return nil
}

// DeleteTokensForUser removes every token issued to a username.
func (r *TokenRepository) DeleteTokensForUser(ctx context.Context, username string) (int, error) {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM auth_tokens WHERE username = ?", username)
	if err != nil {
		return 0, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(affected), nil
}

// DeleteExpiredTokens removes tokens whose stored expiry precedes reference.
func (r *TokenRepository) DeleteExpiredTokens(ctx context.Context, reference time.Time) (int, error) {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM auth_tokens WHERE expires_at < ?", formatTime(reference))
	if err != nil {
		return 0, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(affected), nil
}

// HasTokenCreatedSince reports whether the user holds any token created on
// or after since.
func (r *TokenRepository) HasTokenCreatedSince(ctx context.Context, username string, since time.Time) (bool, error) {
	var count int
	err := r.pool.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM auth_tokens WHERE username = ? AND created_at >= ?
	`, username, formatTime(since)).Scan(&count)
	if err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}
