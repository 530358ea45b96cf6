package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/desk-booking/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
//
// Inserts rely on the uq_desk_day_slot and uq_person_day_slot unique
// indexes: conflicting bookings fail with persistence.ErrDuplicate at
// commit time instead of being pre-checked, which closes the check-then-act
// race between concurrent requests for the same cell.
type BookingRepository struct {
	pool *ConnectionPool
}

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// CreateBooking inserts a booking, reporting ErrDuplicate on either
// uniqueness violation.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" || booking.DeskID == "" || booking.BookedBy == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO bookings (id, desk_id, day, slot, booked_by)
		VALUES (?, ?, ?, ?, ?)
	`, booking.ID, booking.DeskID, formatDay(booking.Day), string(booking.Slot), booking.BookedBy)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetBooking retrieves a booking by ID.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, desk_id, day, slot, booked_by FROM bookings WHERE id = ?
	`, id)
	return scanBooking(row)
}

// DeleteBooking removes a booking by ID.
func (r *BookingRepository) DeleteBooking(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
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

// FindBookingForDesk looks up the booking occupying a desk-day-slot cell.
func (r *BookingRepository) FindBookingForDesk(ctx context.Context, deskID string, day time.Time, slot persistence.Slot) (persistence.Booking, error) {
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, desk_id, day, slot, booked_by
		FROM bookings
		WHERE desk_id = ? AND day = ? AND slot = ?
	`, deskID, formatDay(day), string(slot))
	return scanBooking(row)
}

// FindBookingForPerson looks up the booking held by a person for a day-slot.
func (r *BookingRepository) FindBookingForPerson(ctx context.Context, bookedBy string, day time.Time, slot persistence.Slot) (persistence.Booking, error) {
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, desk_id, day, slot, booked_by
		FROM bookings
		WHERE booked_by = ? AND day = ? AND slot = ?
	`, bookedBy, formatDay(day), string(slot))
	return scanBooking(row)
}

// ListBookingsForDay returns the day's bookings ordered by slot then desk id.
func (r *BookingRepository) ListBookingsForDay(ctx context.Context, day time.Time) ([]persistence.Booking, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, desk_id, day, slot, booked_by
		FROM bookings
		WHERE day = ?
		ORDER BY slot ASC, desk_id ASC
	`, formatDay(day))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return bookings, nil
}

// DeleteBookingsBefore removes bookings dated strictly before cutoff and
// returns how many were removed.
func (r *BookingRepository) DeleteBookingsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM bookings WHERE day < ?", formatDay(cutoff))
	if err != nil {
		return 0, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(affected), nil
}

// HasBookingSince reports whether the person holds any booking dated on or
// after since.
func (r *BookingRepository) HasBookingSince(ctx context.Context, bookedBy string, since time.Time) (bool, error) {
	var count int
	err := r.pool.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM bookings WHERE booked_by = ? AND day >= ?
	`, bookedBy, formatDay(since)).Scan(&count)
	if err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var booking persistence.Booking
	var dayStr, slotStr string

	if err := row.Scan(&booking.ID, &booking.DeskID, &dayStr, &slotStr, &booking.BookedBy); err != nil {
		if err == sql.ErrNoRows {
			return persistence.Booking{}, persistence.ErrNotFound
		}
		return persistence.Booking{}, mapError(err)
	}

	day, err := parseDay(dayStr)
	if err != nil {
		return persistence.Booking{}, err
	}
	booking.Day = day
	booking.Slot = persistence.Slot(slotStr)
	return booking, nil
}
