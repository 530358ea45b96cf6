package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/desk-booking/internal/occupancy"
	"github.com/example/desk-booking/internal/persistence"
)

// BookingStore exposes the booking operations required by the services.
type BookingStore interface {
	CreateBooking(ctx context.Context, booking persistence.Booking) error
	GetBooking(ctx context.Context, id string) (persistence.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	FindBookingForDesk(ctx context.Context, deskID string, day time.Time, slot persistence.Slot) (persistence.Booking, error)
	FindBookingForPerson(ctx context.Context, bookedBy string, day time.Time, slot persistence.Slot) (persistence.Booking, error)
	ListBookingsForDay(ctx context.Context, day time.Time) ([]persistence.Booking, error)
}

// DeskStore exposes the desk operations required by the services.
type DeskStore interface {
	GetDesk(ctx context.Context, id string) (persistence.Desk, error)
	ListDesks(ctx context.Context) ([]persistence.Desk, error)
}

// CoverageStore exposes the coverage operations required by the services.
type CoverageStore interface {
	CreateCoverage(ctx context.Context, coverage persistence.Coverage) error
	GetCoverage(ctx context.Context, id string) (persistence.Coverage, error)
	DeleteCoverage(ctx context.Context, id string) error
	DeleteCoveragesForDesk(ctx context.Context, deskID string) (int, error)
	ListCoverages(ctx context.Context, deskID string) ([]persistence.Coverage, error)
}

// BookingService creates and cancels half-day bookings and assembles the
// per-day occupancy view of the whole desk grid.
type BookingService struct {
	bookings    BookingStore
	desks       DeskStore
	coverages   CoverageStore
	idGenerator func() string
	logger      *slog.Logger
}

// NewBookingService constructs a BookingService with the provided dependencies.
func NewBookingService(bookings BookingStore, desks DeskStore, coverages CoverageStore, idGenerator func() string, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &BookingService{
		bookings:    bookings,
		desks:       desks,
		coverages:   coverages,
		idGenerator: idGenerator,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// CreateBookings books the requested slots of a desk for the principal.
// Slots are booked one at a time; when a later slot conflicts, the earlier
// ones stay booked and are returned alongside the conflict error so the
// caller can report partial success.
func (s *BookingService) CreateBookings(ctx context.Context, principal Principal, input BookingInput) (created []persistence.Booking, err error) {
	if s == nil || s.bookings == nil || s.desks == nil {
		err = fmt.Errorf("booking service not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateBookings",
		"username", principal.Username,
		"desk_id", input.DeskID,
		"day", input.Day.Format("2006-01-02"),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "booking failed", "error", err, "error_kind", ErrorKind(err), "created", len(created))
			return
		}
		logger.InfoContext(ctx, "bookings created", "count", len(created))
	}()

	validation := &ValidationError{}
	if strings.TrimSpace(input.DeskID) == "" {
		validation.add("desk_id", "desk_id cannot be empty")
	}
	if input.Day.IsZero() {
		validation.add("day", "day cannot be empty")
	}
	if !input.AM && !input.PM {
		validation.add("slots", "at least one of am and pm must be requested")
	}
	if validation.HasErrors() {
		err = validation
		return
	}

	var desk persistence.Desk
	desk, err = s.desks.GetDesk(ctx, input.DeskID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		return
	}
	if desk.DeskType != persistence.DeskTypeThesis {
		err = validationError("desk_id", "desk is not bookable")
		return
	}

	day := occupancy.Day(input.Day)
	slots := make([]persistence.Slot, 0, 2)
	if input.AM {
		slots = append(slots, persistence.SlotAM)
	}
	if input.PM {
		slots = append(slots, persistence.SlotPM)
	}

	for _, slot := range slots {
		booking := persistence.Booking{
			ID:       s.idGenerator(),
			DeskID:   desk.ID,
			Day:      day,
			Slot:     slot,
			BookedBy: principal.Username,
		}
		if createErr := s.bookings.CreateBooking(ctx, booking); createErr != nil {
			if errors.Is(createErr, persistence.ErrDuplicate) {
				err = s.diagnoseConflict(ctx, principal, desk.ID, day, slot)
			} else {
				err = createErr
			}
			return
		}
		created = append(created, booking)
	}
	return
}

// diagnoseConflict re-queries after a unique-index violation to tell the
// desk-taken case apart from the person-double-booked case. The row that
// fired the constraint may already be gone again, so both probes can miss.
func (s *BookingService) diagnoseConflict(ctx context.Context, principal Principal, deskID string, day time.Time, slot persistence.Slot) error {
	if _, err := s.bookings.FindBookingForDesk(ctx, deskID, day, slot); err == nil {
		return &ConflictError{Message: fmt.Sprintf("desk is already booked for the %s slot", strings.ToLower(string(slot)))}
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return err
	}
	if _, err := s.bookings.FindBookingForPerson(ctx, principal.Username, day, slot); err == nil {
		return &ConflictError{Message: fmt.Sprintf("you already have a booking for the %s slot on this day", strings.ToLower(string(slot)))}
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return err
	}
	return &ConflictError{Message: fmt.Sprintf("the %s slot was just taken", strings.ToLower(string(slot)))}
}

// CancelBooking removes a booking owned by the principal. Older clients
// send the booker name in the request body; when present it must match the
// stored booker as well.
func (s *BookingService) CancelBooking(ctx context.Context, principal Principal, bookingID, claimedName string) (err error) {
	if s == nil || s.bookings == nil {
		return fmt.Errorf("booking service not configured")
	}

	logger := s.loggerWith(ctx, "CancelBooking", "username", principal.Username, "booking_id", bookingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "cancellation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking cancelled")
	}()

	var booking persistence.Booking
	booking, err = s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		return
	}

	if booking.BookedBy != principal.Username {
		err = ErrForbidden
		return
	}
	if claimed := strings.TrimSpace(claimedName); claimed != "" && claimed != booking.BookedBy {
		err = ErrForbidden
		return
	}

	err = s.bookings.DeleteBooking(ctx, bookingID)
	if errors.Is(err, persistence.ErrNotFound) {
		// Lost a race with another cancellation; the booking is gone either way.
		err = nil
	}
	return
}

// ListBookings returns every booking for a day ordered by slot then desk.
func (s *BookingService) ListBookings(ctx context.Context, day time.Time) ([]persistence.Booking, error) {
	if s == nil || s.bookings == nil {
		return nil, fmt.Errorf("booking service not configured")
	}
	return s.bookings.ListBookingsForDay(ctx, occupancy.Day(day))
}

// DeskStatuses assembles the grid view for a day: every desk with its
// effective occupant, any active coverage and the bookings in both slots.
func (s *BookingService) DeskStatuses(ctx context.Context, day time.Time) (statuses []DeskStatus, err error) {
	if s == nil || s.bookings == nil || s.desks == nil || s.coverages == nil {
		err = fmt.Errorf("booking service not configured")
		return
	}

	day = occupancy.Day(day)
	logger := s.loggerWith(ctx, "DeskStatuses", "day", day.Format("2006-01-02"))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "status assembly failed", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	var desks []persistence.Desk
	desks, err = s.desks.ListDesks(ctx)
	if err != nil {
		return
	}
	var bookings []persistence.Booking
	bookings, err = s.bookings.ListBookingsForDay(ctx, day)
	if err != nil {
		return
	}
	var coverageRows []persistence.Coverage
	coverageRows, err = s.coverages.ListCoverages(ctx, "")
	if err != nil {
		return
	}

	coverages := toOccupancyCoverages(coverageRows)

	bookingsByDesk := make(map[string]map[persistence.Slot]persistence.Booking, len(bookings))
	for _, booking := range bookings {
		bySlot, ok := bookingsByDesk[booking.DeskID]
		if !ok {
			bySlot = make(map[persistence.Slot]persistence.Booking, 2)
			bookingsByDesk[booking.DeskID] = bySlot
		}
		bySlot[booking.Slot] = booking
	}

	statuses = make([]DeskStatus, 0, len(desks))
	for _, desk := range desks {
		status := DeskStatus{Desk: desk}

		if desk.DeskType == persistence.DeskTypeStaff {
			status.CurrentOccupant = occupancy.CurrentOccupant(desk.HolderName, coverages, desk.ID, day)
			if active, ok := occupancy.ActiveCoverage(coverages, desk.ID, day); ok {
				status.HolderAway = true
				start, end := active.StartDay, active.EndDay
				status.AwayStart = &start
				status.AwayEnd = &end
				status.AwayTempOccupant = active.TempOccupant
			}
		}

		if bySlot, ok := bookingsByDesk[desk.ID]; ok {
			if booking, ok := bySlot[persistence.SlotAM]; ok {
				am := booking
				status.BookingAM = &am
			}
			if booking, ok := bySlot[persistence.SlotPM]; ok {
				pm := booking
				status.BookingPM = &pm
			}
		}
		statuses = append(statuses, status)
	}
	return
}
