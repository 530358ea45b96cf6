package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/desk-booking/internal/persistence"
)

// DeskRepository implements persistence.DeskRepository using SQLite.
type DeskRepository struct {
	pool *ConnectionPool
}

// NewDeskRepository creates a new SQLite desk repository.
func NewDeskRepository(pool *ConnectionPool) *DeskRepository {
	return &DeskRepository{pool: pool}
}

// CreateDesk inserts a new desk.
func (r *DeskRepository) CreateDesk(ctx context.Context, desk persistence.Desk) error {
	if desk.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO desks (id, row, col, desk_type, label, holder_name)
		VALUES (?, ?, ?, ?, ?, ?)
	`, desk.ID, desk.Row, desk.Col, string(desk.DeskType), desk.Label, nullable(desk.HolderName))
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetDesk retrieves a desk by ID.
func (r *DeskRepository) GetDesk(ctx context.Context, id string) (persistence.Desk, error) {
	if id == "" {
		return persistence.Desk{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, row, col, desk_type, label, holder_name
		FROM desks
		WHERE id = ?
	`, id)
	return scanDesk(row)
}

// UpdateDesk persists desk changes. When cascadeBookings is set, every
// booking referencing the desk is removed in the same transaction; the
// number of deleted bookings is returned.
func (r *DeskRepository) UpdateDesk(ctx context.Context, desk persistence.Desk, cascadeBookings bool) (int, error) {
	if desk.ID == "" {
		return 0, persistence.ErrNotFound
	}

	deleted := 0
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if cascadeBookings {
			result, err := tx.Exec("DELETE FROM bookings WHERE desk_id = ?", desk.ID)
			if err != nil {
				return mapError(err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			deleted = int(n)
		}

		result, err := tx.Exec(`
			UPDATE desks
			SET desk_type = ?, label = ?, holder_name = ?
			WHERE id = ?
		`, string(desk.DeskType), desk.Label, nullable(desk.HolderName), desk.ID)
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
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// ListDesks returns all desks ordered by row then column.
func (r *DeskRepository) ListDesks(ctx context.Context) ([]persistence.Desk, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, row, col, desk_type, label, holder_name
		FROM desks
		ORDER BY row ASC, col ASC
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var desks []persistence.Desk
	for rows.Next() {
		desk, err := scanDesk(rows)
		if err != nil {
			return nil, err
		}
		desks = append(desks, desk)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return desks, nil
}

// CountDesks returns the number of desk rows.
func (r *DeskRepository) CountDesks(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM desks").Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDesk(row rowScanner) (persistence.Desk, error) {
	var desk persistence.Desk
	var deskType string
	var holder sql.NullString

	if err := row.Scan(&desk.ID, &desk.Row, &desk.Col, &deskType, &desk.Label, &holder); err != nil {
		if err == sql.ErrNoRows {
			return persistence.Desk{}, persistence.ErrNotFound
		}
		return persistence.Desk{}, mapError(err)
	}

	desk.DeskType = persistence.DeskType(deskType)
	if holder.Valid {
		desk.HolderName = holder.String
	}
	return desk, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
