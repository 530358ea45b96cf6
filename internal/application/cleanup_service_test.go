package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/desk-booking/internal/persistence"
	"github.com/example/desk-booking/internal/testfixtures"
)

func TestCleanupService_RunOnce(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	retention := 180 * 24 * time.Hour
	inactive := 365 * 24 * time.Hour
	nowFunc := testfixtures.NewClock(now).NowFunc()

	t.Run("prunes old bookings, expired tokens and stale accounts", func(t *testing.T) {
		t.Parallel()

		oldDay := day(2025, time.January, 10)
		recentDay := day(2026, time.February, 20)

		bookings := newBookingStoreStub(
			persistence.Booking{ID: "b-old", DeskID: "d1", Day: oldDay, Slot: persistence.SlotAM, BookedBy: "ghost"},
			persistence.Booking{ID: "b-new", DeskID: "d1", Day: recentDay, Slot: persistence.SlotAM, BookedBy: "alice"},
		)
		tokens := newTokenStoreStub(
			persistence.AuthToken{Token: "t-dead", Username: "ghost", CreatedAt: now.Add(-60 * 24 * time.Hour), ExpiresAt: now.Add(-30 * 24 * time.Hour)},
			persistence.AuthToken{Token: "t-live", Username: "alice", CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(24 * time.Hour)},
		)
		users := newUserStoreStub(
			persistence.User{Username: "ghost", CreatedAt: now.Add(-2 * 365 * 24 * time.Hour)},
			persistence.User{Username: "alice", CreatedAt: now.Add(-2 * 365 * 24 * time.Hour)},
			persistence.User{Username: "newcomer", CreatedAt: now.Add(-24 * time.Hour)},
		)

		svc := NewCleanupService(bookings, tokens, users, retention, inactive, time.Hour, nowFunc, nil)

		report, err := svc.RunOnce(context.Background())
		if err != nil {
			t.Fatalf("RunOnce failed: %v", err)
		}
		if report.RemovedBookings != 1 {
			t.Fatalf("expected 1 pruned booking, got %d", report.RemovedBookings)
		}
		if report.RemovedTokens != 1 {
			t.Fatalf("expected 1 pruned token, got %d", report.RemovedTokens)
		}
		// ghost is old and inactive; alice has a live token and a recent
		// booking; newcomer is too young to qualify.
		if report.RemovedUsers != 1 {
			t.Fatalf("expected 1 pruned account, got %d", report.RemovedUsers)
		}
		if len(users.deleteCalls) != 1 || users.deleteCalls[0] != "ghost" {
			t.Fatalf("expected ghost to be removed, got %v", users.deleteCalls)
		}
	})

	t.Run("keeps accounts with recent bookings even without tokens", func(t *testing.T) {
		t.Parallel()

		bookings := newBookingStoreStub(
			persistence.Booking{ID: "b1", DeskID: "d1", Day: day(2026, time.February, 20), Slot: persistence.SlotAM, BookedBy: "quiet"},
		)
		users := newUserStoreStub(persistence.User{Username: "quiet", CreatedAt: now.Add(-3 * 365 * 24 * time.Hour)})

		svc := NewCleanupService(bookings, newTokenStoreStub(), users, retention, inactive, time.Hour, nowFunc, nil)

		report, err := svc.RunOnce(context.Background())
		if err != nil {
			t.Fatalf("RunOnce failed: %v", err)
		}
		if report.RemovedUsers != 0 {
			t.Fatalf("expected no pruned accounts, got %d", report.RemovedUsers)
		}
	})

	t.Run("runs the remaining steps when one fails", func(t *testing.T) {
		t.Parallel()

		expected := errors.New("storage offline")
		bookings := newBookingStoreStub()
		bookings.pruneErr = expected
		tokens := newTokenStoreStub(persistence.AuthToken{Token: "t-dead", Username: "x", ExpiresAt: now.Add(-time.Hour)})

		svc := NewCleanupService(bookings, tokens, newUserStoreStub(), retention, inactive, time.Hour, nowFunc, nil)

		report, err := svc.RunOnce(context.Background())
		if !errors.Is(err, expected) {
			t.Fatalf("expected the step error, got %v", err)
		}
		if report.RemovedTokens != 1 {
			t.Fatalf("expected the token step to still run, got %d", report.RemovedTokens)
		}
	})
}

func TestCleanupService_Run(t *testing.T) {
	t.Parallel()

	clock := testfixtures.NewClock(time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC))
	bookings := newBookingStoreStub()
	svc := NewCleanupService(bookings, newTokenStoreStub(), newUserStoreStub(), time.Hour, time.Hour, time.Hour, clock.NowFunc(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Run(ctx)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	// The immediate pass must have happened before the loop waited.
	if len(bookings.pruneCutoffs) != 1 {
		t.Fatalf("expected one immediate pass, got %d", len(bookings.pruneCutoffs))
	}
}
