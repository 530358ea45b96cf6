package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/desk-booking/internal/occupancy"
	"github.com/example/desk-booking/internal/persistence"
)

// BookingPruner exposes the booking operations required by cleanup.
type BookingPruner interface {
	DeleteBookingsBefore(ctx context.Context, cutoff time.Time) (int, error)
	HasBookingSince(ctx context.Context, bookedBy string, since time.Time) (bool, error)
}

// TokenPruner exposes the token operations required by cleanup.
type TokenPruner interface {
	DeleteExpiredTokens(ctx context.Context, reference time.Time) (int, error)
	HasTokenCreatedSince(ctx context.Context, username string, since time.Time) (bool, error)
}

// UserPruner exposes the account operations required by cleanup.
type UserPruner interface {
	ListUsers(ctx context.Context) ([]persistence.User, error)
	DeleteUserData(ctx context.Context, username string) (persistence.UserDataDeleted, error)
}

// CleanupReport summarises one retention pass.
type CleanupReport struct {
	RemovedBookings int
	RemovedTokens   int
	RemovedUsers    int
}

// CleanupService periodically prunes old bookings, expired tokens and
// accounts that have gone unused. Cleanup is best effort: a failing step is
// logged and the remaining steps still run.
type CleanupService struct {
	bookings        BookingPruner
	tokens          TokenPruner
	users           UserPruner
	retention       time.Duration
	inactiveUserTTL time.Duration
	interval        time.Duration
	now             func() time.Time
	logger          *slog.Logger
}

// NewCleanupService constructs a CleanupService with the provided dependencies.
func NewCleanupService(bookings BookingPruner, tokens TokenPruner, users UserPruner, retention, inactiveUserTTL, interval time.Duration, now func() time.Time, logger *slog.Logger) *CleanupService {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &CleanupService{
		bookings:        bookings,
		tokens:          tokens,
		users:           users,
		retention:       retention,
		inactiveUserTTL: inactiveUserTTL,
		interval:        interval,
		now:             now,
		logger:          defaultLogger(logger),
	}
}

func (s *CleanupService) loggerWith(ctx context.Context, operation string) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CleanupService", operation)
}

// RunOnce executes a single retention pass. The returned report counts what
// the steps that succeeded removed; the first step error is returned after
// every step has been attempted.
func (s *CleanupService) RunOnce(ctx context.Context) (report CleanupReport, err error) {
	if s == nil || s.bookings == nil || s.tokens == nil || s.users == nil {
		err = fmt.Errorf("cleanup service not configured")
		return
	}

	now := s.now().UTC()
	logger := s.loggerWith(ctx, "RunOnce")

	if removed, stepErr := s.bookings.DeleteBookingsBefore(ctx, occupancy.Day(now.Add(-s.retention))); stepErr != nil {
		logger.ErrorContext(ctx, "failed to prune old bookings", "error", stepErr)
		err = stepErr
	} else {
		report.RemovedBookings = removed
	}

	if removed, stepErr := s.tokens.DeleteExpiredTokens(ctx, now); stepErr != nil {
		logger.ErrorContext(ctx, "failed to prune expired tokens", "error", stepErr)
		if err == nil {
			err = stepErr
		}
	} else {
		report.RemovedTokens = removed
	}

	removedUsers, stepErr := s.pruneInactiveUsers(ctx, now)
	if stepErr != nil {
		logger.ErrorContext(ctx, "failed to prune inactive accounts", "error", stepErr)
		if err == nil {
			err = stepErr
		}
	}
	report.RemovedUsers = removedUsers

	logger.InfoContext(ctx, "cleanup pass finished",
		"removed_bookings", report.RemovedBookings,
		"removed_tokens", report.RemovedTokens,
		"removed_users", report.RemovedUsers,
	)
	return
}

// pruneInactiveUsers deletes accounts created before the inactivity cutoff
// that have neither a recent booking nor a recently issued token.
func (s *CleanupService) pruneInactiveUsers(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-s.inactiveUserTTL)

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, user := range users {
		if !user.CreatedAt.Before(cutoff) {
			continue
		}
		active, err := s.tokens.HasTokenCreatedSince(ctx, user.Username, cutoff)
		if err != nil {
			return removed, err
		}
		if active {
			continue
		}
		active, err = s.bookings.HasBookingSince(ctx, user.Username, occupancy.Day(cutoff))
		if err != nil {
			return removed, err
		}
		if active {
			continue
		}
		if _, err := s.users.DeleteUserData(ctx, user.Username); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Run executes a pass immediately and then on every interval tick until the
// context is cancelled. Pass errors never stop the loop.
func (s *CleanupService) Run(ctx context.Context) {
	logger := s.loggerWith(ctx, "Run")
	logger.InfoContext(ctx, "cleanup loop started", "interval", s.interval.String())

	if _, err := s.RunOnce(ctx); err != nil {
		logger.ErrorContext(ctx, "cleanup pass failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "cleanup loop stopped")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				logger.ErrorContext(ctx, "cleanup pass failed", "error", err)
			}
		}
	}
}
