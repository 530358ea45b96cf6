package persistence

import "time"

// DeskType classifies how a desk may be used.
type DeskType string

const (
	// DeskTypeStaff marks a desk permanently assigned to a staff member.
	DeskTypeStaff DeskType = "staff"
	// DeskTypeThesis marks a desk bookable by thesis students.
	DeskTypeThesis DeskType = "thesis"
	// DeskTypeBlocked marks a desk that is neither assigned nor bookable.
	DeskTypeBlocked DeskType = "blocked"
)

// Slot identifies one of the two daily booking halves.
type Slot string

const (
	SlotAM Slot = "AM"
	SlotPM Slot = "PM"
)

// Desk represents a position in the workspace grid.
type Desk struct {
	ID         string
	Row        int
	Col        int
	DeskType   DeskType
	Label      string
	HolderName string
}

// Booking reserves a desk for one person for one half-day. BookedBy is a
// weak reference to a username; no referential integrity is enforced.
type Booking struct {
	ID       string
	DeskID   string
	Day      time.Time
	Slot     Slot
	BookedBy string
}

// Coverage records a period where a staff desk's holder is away and a
// temporary occupant uses the desk. Both days are inclusive.
type Coverage struct {
	ID           string
	DeskID       string
	StartDay     time.Time
	EndDay       time.Time
	TempOccupant string
	Note         string
}

// User is a signed-up account with a derived password record.
type User struct {
	Username     string
	PasswordSalt string
	PasswordHash string
	CreatedAt    time.Time
}

// AuthToken is an opaque bearer credential. Username is a weak reference.
type AuthToken struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// UserDataDeleted summarises a user-data removal pass.
type UserDataDeleted struct {
	Tokens   int
	Bookings int
	User     bool
}
