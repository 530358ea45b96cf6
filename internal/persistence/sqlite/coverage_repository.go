package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/desk-booking/internal/persistence"
)

// CoverageRepository implements persistence.CoverageRepository using SQLite.
type CoverageRepository struct {
	pool *ConnectionPool
}

// NewCoverageRepository creates a new SQLite coverage repository.
func NewCoverageRepository(pool *ConnectionPool) *CoverageRepository {
	return &CoverageRepository{pool: pool}
}

// CreateCoverage inserts a coverage period. Overlap prevention is the
// caller's responsibility; storage only enforces the desk reference.
func (r *CoverageRepository) CreateCoverage(ctx context.Context, coverage persistence.Coverage) error {
	if coverage.ID == "" || coverage.DeskID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO coverages (id, desk_id, start_day, end_day, temp_occupant, note)
		VALUES (?, ?, ?, ?, ?, ?)
	`, coverage.ID, coverage.DeskID, formatDay(coverage.StartDay), formatDay(coverage.EndDay), coverage.TempOccupant, coverage.Note)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetCoverage retrieves a coverage period by ID.
func (r *CoverageRepository) GetCoverage(ctx context.Context, id string) (persistence.Coverage, error) {
	if id == "" {
		return persistence.Coverage{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, desk_id, start_day, end_day, temp_occupant, note
		FROM coverages
		WHERE id = ?
	`, id)
	return scanCoverage(row)
}

// DeleteCoverage removes a coverage period by ID.
func (r *CoverageRepository) DeleteCoverage(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM coverages WHERE id = ?", id)
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

// DeleteCoveragesForDesk removes every coverage period for a desk and
// returns how many were removed.
func (r *CoverageRepository) DeleteCoveragesForDesk(ctx context.Context, deskID string) (int, error) {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM coverages WHERE desk_id = ?", deskID)
	if err != nil {
		return 0, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(affected), nil
}

// ListCoverages returns coverages ordered by desk then start day. Passing a
// non-empty deskID narrows the result to that desk.
func (r *CoverageRepository) ListCoverages(ctx context.Context, deskID string) ([]persistence.Coverage, error) {
	query := `
		SELECT id, desk_id, start_day, end_day, temp_occupant, note
		FROM coverages
	`
	var args []any
	if deskID != "" {
		query += " WHERE desk_id = ?"
		args = append(args, deskID)
	}
	query += " ORDER BY desk_id ASC, start_day ASC"

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var coverages []persistence.Coverage
	for rows.Next() {
		coverage, err := scanCoverage(rows)
		if err != nil {
			return nil, err
		}
		coverages = append(coverages, coverage)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return coverages, nil
}

func scanCoverage(row rowScanner) (persistence.Coverage, error) {
	var coverage persistence.Coverage
	var startStr, endStr string

	if err := row.Scan(&coverage.ID, &coverage.DeskID, &startStr, &endStr, &coverage.TempOccupant, &coverage.Note); err != nil {
		if err == sql.ErrNoRows {
			return persistence.Coverage{}, persistence.ErrNotFound
		}
		return persistence.Coverage{}, mapError(err)
	}

	start, err := parseDay(startStr)
	if err != nil {
		return persistence.Coverage{}, err
	}
	end, err := parseDay(endStr)
	if err != nil {
		return persistence.Coverage{}, err
	}
	coverage.StartDay = start
	coverage.EndDay = end
	return coverage, nil
}
