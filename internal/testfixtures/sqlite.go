package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/desk-booking/internal/persistence"
	"github.com/example/desk-booking/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Pool      *sqlite.ConnectionPool
	Desks     persistence.DeskRepository
	Bookings  persistence.BookingRepository
	Coverages persistence.CoverageRepository
	Users     persistence.UserRepository
	Tokens    persistence.TokenRepository

	cleanup func()
}

// SeedGrid populates the default desk grid through the harness repositories.
func (h *SQLiteHarness) SeedGrid(ctx context.Context, idGenerator func() string) error {
	return sqlite.SeedGrid(ctx, h.Desks, idGenerator)
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a harness using a temporary database file that
// is migrated automatically. Cleanup is registered with the provided
// testing.TB; Close may also be called explicitly.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "desks.db")

	pool, err := sqlite.Open(context.Background(), "file:"+path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	harness := &SQLiteHarness{
		Pool:      pool,
		Desks:     sqlite.NewDeskRepository(pool),
		Bookings:  sqlite.NewBookingRepository(pool),
		Coverages: sqlite.NewCoverageRepository(pool),
		Users:     sqlite.NewUserRepository(pool),
		Tokens:    sqlite.NewTokenRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}
	tb.Cleanup(harness.Close)
	return harness
}
