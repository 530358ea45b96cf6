package application

import (
	"time"

	"github.com/example/desk-booking/internal/persistence"
)

// Principal represents the authenticated user invoking a service method.
// Admin operations are gated at the transport layer (HTTP basic auth), so
// the principal carries identity only.
type Principal struct {
	Username string
}

// DeskStatus is the per-day projection of a desk returned to clients: grid
// position plus either the day's AM/PM bookers (thesis desks) or the
// holder/occupant resolution (staff desks).
type DeskStatus struct {
	Desk persistence.Desk

	// Staff desks.
	CurrentOccupant  string
	HolderAway       bool
	AwayStart        *time.Time
	AwayEnd          *time.Time
	AwayTempOccupant string

	// Thesis desks.
	BookingAM *persistence.Booking
	BookingPM *persistence.Booking
}

// BookingInput captures caller provided booking fields. BookedBy is filled
// from the principal, never from the request body.
type BookingInput struct {
	DeskID string
	Day    time.Time
	AM     bool
	PM     bool
}

// CoverageInput captures caller provided coverage fields.
type CoverageInput struct {
	DeskID       string
	StartDay     time.Time
	EndDay       time.Time
	TempOccupant string
	Note         string
}

// DeskUpdateInput captures an admin desk edit. Nil fields leave the stored
// value unchanged.
type DeskUpdateInput struct {
	DeskType   *string
	Label      *string
	HolderName *string
}

// AuthResult captures the outcome of an operation that issues a token.
type AuthResult struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// AccountDeleted reports what a user-data deletion pass removed.
type AccountDeleted struct {
	Tokens   int
	Bookings int
	User     bool
}
