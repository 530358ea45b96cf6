package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/desk-booking/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite.
type UserRepository struct {
	pool *ConnectionPool
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{pool: pool}
}

// CreateUser inserts a new account, reporting ErrDuplicate for an existing
// username.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.Username == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO users (username, password_salt, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, user.Username, user.PasswordSalt, user.PasswordHash, formatTime(user.CreatedAt))
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetUser retrieves an account by username.
func (r *UserRepository) GetUser(ctx context.Context, username string) (persistence.User, error) {
	if username == "" {
		return persistence.User{}, persistence.ErrNotFound
	}

	var user persistence.User
	var createdStr string
	err := r.pool.db.QueryRowContext(ctx, `
		SELECT username, password_salt, password_hash, created_at
		FROM users
		WHERE username = ?
	`, username).Scan(&user.Username, &user.PasswordSalt, &user.PasswordHash, &createdStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, mapError(err)
	}

	created, err := parseTime(createdStr)
	if err != nil {
		return persistence.User{}, err
	}
	user.CreatedAt = created
	return user, nil
}

// UpdateUserPassword replaces the stored password record.
func (r *UserRepository) UpdateUserPassword(ctx context.Context, username, salt, hash string) error {
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE users SET password_salt = ?, password_hash = ? WHERE username = ?
	`, salt, hash, username)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListUsers returns all accounts ordered by creation time.
func (r *UserRepository) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT username, password_salt, password_hash, created_at
		FROM users
		ORDER BY created_at ASC, username ASC
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		var user persistence.User
		var createdStr string
		if err := rows.Scan(&user.Username, &user.PasswordSalt, &user.PasswordHash, &createdStr); err != nil {
			return nil, mapError(err)
		}
		created, err := parseTime(createdStr)
		if err != nil {
			return nil, err
		}
		user.CreatedAt = created
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

// DeleteUserData removes the user's tokens, bookings and account row in one
// transaction. A missing account row is tolerated so dangling token and
// booking references can still be swept.
func (r *UserRepository) DeleteUserData(ctx context.Context, username string) (persistence.UserDataDeleted, error) {
	var deleted persistence.UserDataDeleted
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM auth_tokens WHERE username = ?", username)
		if err != nil {
			return mapError(err)
		}
		tokens, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		deleted.Tokens = int(tokens)

		result, err = tx.Exec("DELETE FROM bookings WHERE booked_by = ?", username)
		if err != nil {
			return mapError(err)
		}
		bookings, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		deleted.Bookings = int(bookings)

		result, err = tx.Exec("DELETE FROM users WHERE username = ?", username)
		if err != nil {
			return mapError(err)
		}
		users, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		deleted.User = users > 0
		return nil
	})
	if err != nil {
		return persistence.UserDataDeleted{}, err
	}
	return deleted, nil
}
