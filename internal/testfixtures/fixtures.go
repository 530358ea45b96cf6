package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/desk-booking/internal/persistence"
)

var (
	deskCounter     uint64
	bookingCounter  uint64
	coverageCounter uint64
	userCounter     uint64
	tokenCounter    uint64
)

var referenceTime = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDay returns the baseline timestamp truncated to midnight UTC.
func ReferenceDay() time.Time {
	return time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
}

// DeskOption configures a generated desk fixture.
type DeskOption func(*persistence.Desk)

// NewDesk returns a deterministic bookable desk with optional overrides.
func NewDesk(opts ...DeskOption) persistence.Desk {
	idx := atomic.AddUint64(&deskCounter, 1)
	desk := persistence.Desk{
		ID:       fmt.Sprintf("desk-%03d", idx),
		Row:      2,
		Col:      int(idx % 6),
		DeskType: persistence.DeskTypeThesis,
		Label:    fmt.Sprintf("D3%d", idx%6+1),
	}
	for _, opt := range opts {
		opt(&desk)
	}
	return desk
}

// WithDeskID overrides the generated desk ID.
func WithDeskID(id string) DeskOption {
	return func(d *persistence.Desk) { d.ID = id }
}

// WithDeskType overrides the desk type.
func WithDeskType(deskType persistence.DeskType) DeskOption {
	return func(d *persistence.Desk) { d.DeskType = deskType }
}

// WithDeskLabel overrides the desk label.
func WithDeskLabel(label string) DeskOption {
	return func(d *persistence.Desk) { d.Label = label }
}

// WithDeskHolder overrides the holder name and marks the desk as staff.
func WithDeskHolder(name string) DeskOption {
	return func(d *persistence.Desk) {
		d.DeskType = persistence.DeskTypeStaff
		d.HolderName = name
	}
}

// WithDeskPosition overrides the grid position.
func WithDeskPosition(row, col int) DeskOption {
	return func(d *persistence.Desk) {
		d.Row = row
		d.Col = col
	}
}

// BookingOption configures a generated booking fixture.
type BookingOption func(*persistence.Booking)

// NewBooking returns a deterministic booking with optional overrides.
func NewBooking(opts ...BookingOption) persistence.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	booking := persistence.Booking{
		ID:       fmt.Sprintf("booking-%03d", idx),
		DeskID:   fmt.Sprintf("desk-%03d", idx),
		Day:      ReferenceDay(),
		Slot:     persistence.SlotAM,
		BookedBy: fmt.Sprintf("student-%03d", idx),
	}
	for _, opt := range opts {
		opt(&booking)
	}
	return booking
}

// WithBookingID overrides the generated booking ID.
func WithBookingID(id string) BookingOption {
	return func(b *persistence.Booking) { b.ID = id }
}

// WithBookingDesk overrides the booked desk.
func WithBookingDesk(deskID string) BookingOption {
	return func(b *persistence.Booking) { b.DeskID = deskID }
}

// WithBookingDay overrides the booked day.
func WithBookingDay(day time.Time) BookingOption {
	return func(b *persistence.Booking) { b.Day = day }
}

// WithBookingSlot overrides the booked slot.
func WithBookingSlot(slot persistence.Slot) BookingOption {
	return func(b *persistence.Booking) { b.Slot = slot }
}

// WithBookingOwner overrides the booking owner.
func WithBookingOwner(name string) BookingOption {
	return func(b *persistence.Booking) { b.BookedBy = name }
}

// CoverageOption configures a generated coverage fixture.
type CoverageOption func(*persistence.Coverage)

// NewCoverage returns a deterministic one-week away period with overrides.
func NewCoverage(opts ...CoverageOption) persistence.Coverage {
	idx := atomic.AddUint64(&coverageCounter, 1)
	coverage := persistence.Coverage{
		ID:           fmt.Sprintf("coverage-%03d", idx),
		DeskID:       fmt.Sprintf("desk-%03d", idx),
		StartDay:     ReferenceDay(),
		EndDay:       ReferenceDay().AddDate(0, 0, 6),
		TempOccupant: fmt.Sprintf("Visitor %03d", idx),
	}
	for _, opt := range opts {
		opt(&coverage)
	}
	return coverage
}

// WithCoverageID overrides the generated coverage ID.
func WithCoverageID(id string) CoverageOption {
	return func(c *persistence.Coverage) { c.ID = id }
}

// WithCoverageDesk overrides the covered desk.
func WithCoverageDesk(deskID string) CoverageOption {
	return func(c *persistence.Coverage) { c.DeskID = deskID }
}

// WithCoveragePeriod overrides the away period boundaries.
func WithCoveragePeriod(start, end time.Time) CoverageOption {
	return func(c *persistence.Coverage) {
		c.StartDay = start
		c.EndDay = end
	}
}

// WithCoverageOccupant overrides the stand-in occupant.
func WithCoverageOccupant(name string) CoverageOption {
	return func(c *persistence.Coverage) { c.TempOccupant = name }
}

// UserOption configures a generated user fixture.
type UserOption func(*persistence.User)

// NewUser returns a deterministic user record with optional overrides. The
// salt and hash are placeholders; tests that verify passwords should build
// the record through the application package instead.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	user := persistence.User{
		Username:     fmt.Sprintf("student-%03d", idx),
		PasswordSalt: fmt.Sprintf("salt-%03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUsername overrides the generated username.
func WithUsername(name string) UserOption {
	return func(u *persistence.User) { u.Username = name }
}

// WithUserCreatedAt overrides the account creation time.
func WithUserCreatedAt(t time.Time) UserOption {
	return func(u *persistence.User) { u.CreatedAt = t }
}

// TokenOption configures a generated token fixture.
type TokenOption func(*persistence.AuthToken)

// NewToken returns a deterministic auth token with optional overrides.
func NewToken(opts ...TokenOption) persistence.AuthToken {
	idx := atomic.AddUint64(&tokenCounter, 1)
	token := persistence.AuthToken{
		Token:     fmt.Sprintf("token-%03d", idx),
		Username:  fmt.Sprintf("student-%03d", idx),
		CreatedAt: referenceTime,
		ExpiresAt: referenceTime.Add(30 * 24 * time.Hour),
	}
	for _, opt := range opts {
		opt(&token)
	}
	return token
}

// WithTokenValue overrides the generated token string.
func WithTokenValue(value string) TokenOption {
	return func(t *persistence.AuthToken) { t.Token = value }
}

// WithTokenUser overrides the token owner.
func WithTokenUser(username string) TokenOption {
	return func(t *persistence.AuthToken) { t.Username = username }
}

// WithTokenLifetime overrides the creation and expiry instants.
func WithTokenLifetime(createdAt, expiresAt time.Time) TokenOption {
	return func(t *persistence.AuthToken) {
		t.CreatedAt = createdAt
		t.ExpiresAt = expiresAt
	}
}
