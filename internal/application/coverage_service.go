package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/desk-booking/internal/occupancy"
	"github.com/example/desk-booking/internal/persistence"
)

// CoverageService manages the away periods of staff desks and the stand-in
// occupants covering them.
type CoverageService struct {
	coverages   CoverageStore
	desks       DeskStore
	idGenerator func() string
	logger      *slog.Logger
}

// NewCoverageService constructs a CoverageService with the provided dependencies.
func NewCoverageService(coverages CoverageStore, desks DeskStore, idGenerator func() string, logger *slog.Logger) *CoverageService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &CoverageService{
		coverages:   coverages,
		desks:       desks,
		idGenerator: idGenerator,
		logger:      defaultLogger(logger),
	}
}

func (s *CoverageService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CoverageService", operation, attrs...)
}

// CreateCoverage records an away period for a staff desk. Periods are
// closed day intervals; a new period may not overlap an existing one on the
// same desk, not even on a shared boundary day.
func (s *CoverageService) CreateCoverage(ctx context.Context, input CoverageInput) (coverage persistence.Coverage, err error) {
	if s == nil || s.coverages == nil || s.desks == nil {
		err = fmt.Errorf("coverage service not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateCoverage", "desk_id", input.DeskID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "coverage creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "coverage created", "coverage_id", coverage.ID)
	}()

	validation := &ValidationError{}
	if strings.TrimSpace(input.DeskID) == "" {
		validation.add("desk_id", "desk_id cannot be empty")
	}
	if strings.TrimSpace(input.TempOccupant) == "" {
		validation.add("temp_occupant", "temp_occupant cannot be empty")
	}
	if input.StartDay.IsZero() {
		validation.add("start_day", "start_day cannot be empty")
	}
	if input.EndDay.IsZero() {
		validation.add("end_day", "end_day cannot be empty")
	}
	if validation.HasErrors() {
		err = validation
		return
	}

	start := occupancy.Day(input.StartDay)
	end := occupancy.Day(input.EndDay)
	if end.Before(start) {
		err = validationError("end_day", "end_day must not be before start_day")
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
	if desk.DeskType != persistence.DeskTypeStaff {
		err = validationError("desk_id", "coverage can only be recorded for staff desks")
		return
	}

	var existing []persistence.Coverage
	existing, err = s.coverages.ListCoverages(ctx, desk.ID)
	if err != nil {
		return
	}
	if occupancy.HasOverlap(toOccupancyCoverages(existing), desk.ID, start, end, "") {
		err = &ConflictError{Message: "the away period overlaps an existing one for this desk"}
		return
	}

	coverage = persistence.Coverage{
		ID:           s.idGenerator(),
		DeskID:       desk.ID,
		StartDay:     start,
		EndDay:       end,
		TempOccupant: strings.TrimSpace(input.TempOccupant),
		Note:         strings.TrimSpace(input.Note),
	}
	err = s.coverages.CreateCoverage(ctx, coverage)
	return
}

// DeleteCoverage removes a single away period.
func (s *CoverageService) DeleteCoverage(ctx context.Context, id string) error {
	if s == nil || s.coverages == nil {
		return fmt.Errorf("coverage service not configured")
	}

	logger := s.loggerWith(ctx, "DeleteCoverage", "coverage_id", id)
	if err := s.coverages.DeleteCoverage(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		logger.ErrorContext(ctx, "coverage deletion failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "coverage deleted")
	return nil
}

// ClearCoverages removes every away period of a desk and returns how many
// were deleted.
func (s *CoverageService) ClearCoverages(ctx context.Context, deskID string) (int, error) {
	if s == nil || s.coverages == nil || s.desks == nil {
		return 0, fmt.Errorf("coverage service not configured")
	}

	logger := s.loggerWith(ctx, "ClearCoverages", "desk_id", deskID)
	if _, err := s.desks.GetDesk(ctx, deskID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		logger.ErrorContext(ctx, "coverage clearing failed", "error", err, "error_kind", ErrorKind(err))
		return 0, err
	}

	removed, err := s.coverages.DeleteCoveragesForDesk(ctx, deskID)
	if err != nil {
		logger.ErrorContext(ctx, "coverage clearing failed", "error", err, "error_kind", ErrorKind(err))
		return 0, err
	}
	logger.InfoContext(ctx, "coverages cleared", "count", removed)
	return removed, nil
}

// ListCoverages returns the away periods of one desk, or of every desk when
// deskID is empty.
func (s *CoverageService) ListCoverages(ctx context.Context, deskID string) ([]persistence.Coverage, error) {
	if s == nil || s.coverages == nil {
		return nil, fmt.Errorf("coverage service not configured")
	}
	return s.coverages.ListCoverages(ctx, deskID)
}

func toOccupancyCoverages(rows []persistence.Coverage) []occupancy.Coverage {
	coverages := make([]occupancy.Coverage, len(rows))
	for i, row := range rows {
		coverages[i] = occupancy.Coverage{
			ID:           row.ID,
			DeskID:       row.DeskID,
			StartDay:     row.StartDay,
			EndDay:       row.EndDay,
			TempOccupant: row.TempOccupant,
		}
	}
	return coverages
}
