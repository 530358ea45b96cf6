package persistence

import (
	"context"
	"time"
)

// DeskRepository exposes storage operations for the desk grid.
type DeskRepository interface {
	CreateDesk(ctx context.Context, desk Desk) error
	GetDesk(ctx context.Context, id string) (Desk, error)
	// UpdateDesk persists the desk and, when cascadeBookings is set, deletes
	// every booking referencing it within the same transaction. It returns
	// the number of bookings removed.
	UpdateDesk(ctx context.Context, desk Desk, cascadeBookings bool) (int, error)
	ListDesks(ctx context.Context) ([]Desk, error)
	CountDesks(ctx context.Context) (int, error)
}

// BookingRepository exposes storage operations for half-day bookings.
// CreateBooking reports ErrDuplicate when either uniqueness constraint
// (desk-slot or person-slot) fires; callers diagnose the cause afterwards.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	FindBookingForDesk(ctx context.Context, deskID string, day time.Time, slot Slot) (Booking, error)
	FindBookingForPerson(ctx context.Context, bookedBy string, day time.Time, slot Slot) (Booking, error)
	ListBookingsForDay(ctx context.Context, day time.Time) ([]Booking, error)
	DeleteBookingsBefore(ctx context.Context, cutoff time.Time) (int, error)
	HasBookingSince(ctx context.Context, bookedBy string, since time.Time) (bool, error)
}

// CoverageRepository exposes storage operations for staff coverage periods.
type CoverageRepository interface {
	CreateCoverage(ctx context.Context, coverage Coverage) error
	GetCoverage(ctx context.Context, id string) (Coverage, error)
	DeleteCoverage(ctx context.Context, id string) error
	DeleteCoveragesForDesk(ctx context.Context, deskID string) (int, error)
	// ListCoverages returns all coverages ordered by desk then start day;
	// a non-empty deskID narrows the result to one desk.
	ListCoverages(ctx context.Context, deskID string) ([]Coverage, error)
}

// UserRepository exposes storage operations for accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, username string) (User, error)
	UpdateUserPassword(ctx context.Context, username, salt, hash string) error
	ListUsers(ctx context.Context) ([]User, error)
	// DeleteUserData removes the user's tokens, bookings and account row in
	// one transaction. Dangling references are tolerated: the pass succeeds
	// even when no user row exists.
	DeleteUserData(ctx context.Context, username string) (UserDataDeleted, error)
}

// TokenRepository exposes storage operations for bearer tokens.
// DeleteToken is idempotent: removing an absent token is a no-op.
type TokenRepository interface {
	CreateToken(ctx context.Context, token AuthToken) error
	GetToken(ctx context.Context, token string) (AuthToken, error)
	DeleteToken(ctx context.Context, token string) error
	DeleteTokensForUser(ctx context.Context, username string) (int, error)
	DeleteExpiredTokens(ctx context.Context, reference time.Time) (int, error)
	HasTokenCreatedSince(ctx context.Context, username string, since time.Time) (bool, error)
}
