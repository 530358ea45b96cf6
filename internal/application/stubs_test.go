package application

import (
	"context"
	"sort"
	"time"

	"github.com/example/desk-booking/internal/occupancy"
	"github.com/example/desk-booking/internal/persistence"
)

// userStoreStub implements UserStore and UserPruner in memory.
type userStoreStub struct {
	users     map[string]persistence.User
	createErr error
	getErr    error
	updateErr error
	deleteErr error
	listErr   error

	deleteCalls []string
}

func newUserStoreStub(users ...persistence.User) *userStoreStub {
	stub := &userStoreStub{users: make(map[string]persistence.User)}
	for _, user := range users {
		stub.users[user.Username] = user
	}
	return stub
}

func (s *userStoreStub) CreateUser(_ context.Context, user persistence.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.users[user.Username]; ok {
		return persistence.ErrDuplicate
	}
	s.users[user.Username] = user
	return nil
}

func (s *userStoreStub) GetUser(_ context.Context, username string) (persistence.User, error) {
	if s.getErr != nil {
		return persistence.User{}, s.getErr
	}
	user, ok := s.users[username]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

func (s *userStoreStub) UpdateUserPassword(_ context.Context, username, salt, hash string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	user, ok := s.users[username]
	if !ok {
		return persistence.ErrNotFound
	}
	user.PasswordSalt = salt
	user.PasswordHash = hash
	s.users[username] = user
	return nil
}

func (s *userStoreStub) ListUsers(_ context.Context) ([]persistence.User, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	users := make([]persistence.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *userStoreStub) DeleteUserData(_ context.Context, username string) (persistence.UserDataDeleted, error) {
	if s.deleteErr != nil {
		return persistence.UserDataDeleted{}, s.deleteErr
	}
	s.deleteCalls = append(s.deleteCalls, username)
	deleted := persistence.UserDataDeleted{Tokens: 1, Bookings: 2}
	if _, ok := s.users[username]; ok {
		delete(s.users, username)
		deleted.User = true
	}
	return deleted, nil
}

// tokenStoreStub implements TokenStore and TokenPruner in memory.
type tokenStoreStub struct {
	tokens    map[string]persistence.AuthToken
	createErr error
	getErr    error
	deleteErr error

	revokedUsers []string
	expiredRuns  []time.Time
	expiredErr   error
	hasTokenErr  error
}

func newTokenStoreStub(tokens ...persistence.AuthToken) *tokenStoreStub {
	stub := &tokenStoreStub{tokens: make(map[string]persistence.AuthToken)}
	for _, token := range tokens {
		stub.tokens[token.Token] = token
	}
	return stub
}

func (s *tokenStoreStub) CreateToken(_ context.Context, token persistence.AuthToken) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.tokens[token.Token] = token
	return nil
}

func (s *tokenStoreStub) GetToken(_ context.Context, token string) (persistence.AuthToken, error) {
	if s.getErr != nil {
		return persistence.AuthToken{}, s.getErr
	}
	row, ok := s.tokens[token]
	if !ok {
		return persistence.AuthToken{}, persistence.ErrNotFound
	}
	return row, nil
}

func (s *tokenStoreStub) DeleteToken(_ context.Context, token string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.tokens, token)
	return nil
}

func (s *tokenStoreStub) DeleteTokensForUser(_ context.Context, username string) (int, error) {
	s.revokedUsers = append(s.revokedUsers, username)
	removed := 0
	for value, token := range s.tokens {
		if token.Username == username {
			delete(s.tokens, value)
			removed++
		}
	}
	return removed, nil
}

func (s *tokenStoreStub) DeleteExpiredTokens(_ context.Context, reference time.Time) (int, error) {
	if s.expiredErr != nil {
		return 0, s.expiredErr
	}
	s.expiredRuns = append(s.expiredRuns, reference)
	removed := 0
	for value, token := range s.tokens {
		if token.ExpiresAt.Before(reference) {
			delete(s.tokens, value)
			removed++
		}
	}
	return removed, nil
}

func (s *tokenStoreStub) HasTokenCreatedSince(_ context.Context, username string, since time.Time) (bool, error) {
	if s.hasTokenErr != nil {
		return false, s.hasTokenErr
	}
	for _, token := range s.tokens {
		if token.Username == username && !token.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// bookingStoreStub implements BookingStore and BookingPruner in memory and
// mirrors the storage uniqueness rules: one booking per desk and slot and
// one per person and slot for any day.
type bookingStoreStub struct {
	bookings  []persistence.Booking
	createErr error
	getErr    error
	deleteErr error
	listErr   error
	pruneErr  error

	pruneCutoffs []time.Time
}

func newBookingStoreStub(bookings ...persistence.Booking) *bookingStoreStub {
	return &bookingStoreStub{bookings: bookings}
}

func (s *bookingStoreStub) CreateBooking(_ context.Context, booking persistence.Booking) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.bookings {
		sameDay := existing.Day.Equal(booking.Day) && existing.Slot == booking.Slot
		if sameDay && (existing.DeskID == booking.DeskID || existing.BookedBy == booking.BookedBy) {
			return persistence.ErrDuplicate
		}
	}
	s.bookings = append(s.bookings, booking)
	return nil
}

func (s *bookingStoreStub) GetBooking(_ context.Context, id string) (persistence.Booking, error) {
	if s.getErr != nil {
		return persistence.Booking{}, s.getErr
	}
	for _, booking := range s.bookings {
		if booking.ID == id {
			return booking, nil
		}
	}
	return persistence.Booking{}, persistence.ErrNotFound
}

func (s *bookingStoreStub) DeleteBooking(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, booking := range s.bookings {
		if booking.ID == id {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *bookingStoreStub) FindBookingForDesk(_ context.Context, deskID string, day time.Time, slot persistence.Slot) (persistence.Booking, error) {
	for _, booking := range s.bookings {
		if booking.DeskID == deskID && booking.Day.Equal(day) && booking.Slot == slot {
			return booking, nil
		}
	}
	return persistence.Booking{}, persistence.ErrNotFound
}

func (s *bookingStoreStub) FindBookingForPerson(_ context.Context, bookedBy string, day time.Time, slot persistence.Slot) (persistence.Booking, error) {
	for _, booking := range s.bookings {
		if booking.BookedBy == bookedBy && booking.Day.Equal(day) && booking.Slot == slot {
			return booking, nil
		}
	}
	return persistence.Booking{}, persistence.ErrNotFound
}

func (s *bookingStoreStub) ListBookingsForDay(_ context.Context, day time.Time) ([]persistence.Booking, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	matched := make([]persistence.Booking, 0)
	for _, booking := range s.bookings {
		if booking.Day.Equal(day) {
			matched = append(matched, booking)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Slot != matched[j].Slot {
			return matched[i].Slot < matched[j].Slot
		}
		return matched[i].DeskID < matched[j].DeskID
	})
	return matched, nil
}

func (s *bookingStoreStub) DeleteBookingsBefore(_ context.Context, cutoff time.Time) (int, error) {
	if s.pruneErr != nil {
		return 0, s.pruneErr
	}
	s.pruneCutoffs = append(s.pruneCutoffs, cutoff)
	kept := s.bookings[:0]
	removed := 0
	for _, booking := range s.bookings {
		if booking.Day.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, booking)
	}
	s.bookings = kept
	return removed, nil
}

func (s *bookingStoreStub) HasBookingSince(_ context.Context, bookedBy string, since time.Time) (bool, error) {
	for _, booking := range s.bookings {
		if booking.BookedBy == bookedBy && !booking.Day.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// deskStoreStub implements DeskStore and DeskAdminStore in memory.
type deskStoreStub struct {
	desks     map[string]persistence.Desk
	getErr    error
	listErr   error
	updateErr error

	cascadeRemoved int
	updateCalls    []deskUpdateCall
}

type deskUpdateCall struct {
	desk    persistence.Desk
	cascade bool
}

func newDeskStoreStub(desks ...persistence.Desk) *deskStoreStub {
	stub := &deskStoreStub{desks: make(map[string]persistence.Desk)}
	for _, desk := range desks {
		stub.desks[desk.ID] = desk
	}
	return stub
}

func (s *deskStoreStub) GetDesk(_ context.Context, id string) (persistence.Desk, error) {
	if s.getErr != nil {
		return persistence.Desk{}, s.getErr
	}
	desk, ok := s.desks[id]
	if !ok {
		return persistence.Desk{}, persistence.ErrNotFound
	}
	return desk, nil
}

func (s *deskStoreStub) ListDesks(_ context.Context) ([]persistence.Desk, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	desks := make([]persistence.Desk, 0, len(s.desks))
	for _, desk := range s.desks {
		desks = append(desks, desk)
	}
	sort.Slice(desks, func(i, j int) bool {
		if desks[i].Row != desks[j].Row {
			return desks[i].Row < desks[j].Row
		}
		return desks[i].Col < desks[j].Col
	})
	return desks, nil
}

func (s *deskStoreStub) UpdateDesk(_ context.Context, desk persistence.Desk, cascadeBookings bool) (int, error) {
	if s.updateErr != nil {
		return 0, s.updateErr
	}
	if _, ok := s.desks[desk.ID]; !ok {
		return 0, persistence.ErrNotFound
	}
	s.desks[desk.ID] = desk
	s.updateCalls = append(s.updateCalls, deskUpdateCall{desk: desk, cascade: cascadeBookings})
	if cascadeBookings {
		return s.cascadeRemoved, nil
	}
	return 0, nil
}

// coverageStoreStub implements CoverageStore in memory.
type coverageStoreStub struct {
	coverages []persistence.Coverage
	createErr error
	deleteErr error
	listErr   error
}

func newCoverageStoreStub(coverages ...persistence.Coverage) *coverageStoreStub {
	return &coverageStoreStub{coverages: coverages}
}

func (s *coverageStoreStub) CreateCoverage(_ context.Context, coverage persistence.Coverage) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.coverages = append(s.coverages, coverage)
	return nil
}

func (s *coverageStoreStub) GetCoverage(_ context.Context, id string) (persistence.Coverage, error) {
	for _, coverage := range s.coverages {
		if coverage.ID == id {
			return coverage, nil
		}
	}
	return persistence.Coverage{}, persistence.ErrNotFound
}

func (s *coverageStoreStub) DeleteCoverage(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, coverage := range s.coverages {
		if coverage.ID == id {
			s.coverages = append(s.coverages[:i], s.coverages[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *coverageStoreStub) DeleteCoveragesForDesk(_ context.Context, deskID string) (int, error) {
	kept := s.coverages[:0]
	removed := 0
	for _, coverage := range s.coverages {
		if coverage.DeskID == deskID {
			removed++
			continue
		}
		kept = append(kept, coverage)
	}
	s.coverages = kept
	return removed, nil
}

func (s *coverageStoreStub) ListCoverages(_ context.Context, deskID string) ([]persistence.Coverage, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	matched := make([]persistence.Coverage, 0, len(s.coverages))
	for _, coverage := range s.coverages {
		if deskID == "" || coverage.DeskID == deskID {
			matched = append(matched, coverage)
		}
	}
	return matched, nil
}

func day(year int, month time.Month, dayOfMonth int) time.Time {
	return occupancy.Day(time.Date(year, month, dayOfMonth, 12, 0, 0, 0, time.UTC))
}
