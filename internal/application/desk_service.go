package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/desk-booking/internal/persistence"
)

// DeskAdminStore exposes the desk operations required by the desk service.
type DeskAdminStore interface {
	GetDesk(ctx context.Context, id string) (persistence.Desk, error)
	ListDesks(ctx context.Context) ([]persistence.Desk, error)
	UpdateDesk(ctx context.Context, desk persistence.Desk, cascadeBookings bool) (int, error)
}

// DeskService reads the desk grid and applies administrative edits to
// individual desks.
type DeskService struct {
	desks  DeskAdminStore
	logger *slog.Logger
}

// NewDeskService constructs a DeskService with the provided dependencies.
func NewDeskService(desks DeskAdminStore, logger *slog.Logger) *DeskService {
	return &DeskService{desks: desks, logger: defaultLogger(logger)}
}

func (s *DeskService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DeskService", operation, attrs...)
}

// ListDesks returns the full grid ordered by row then column.
func (s *DeskService) ListDesks(ctx context.Context) ([]persistence.Desk, error) {
	if s == nil || s.desks == nil {
		return nil, fmt.Errorf("desk service not configured")
	}
	return s.desks.ListDesks(ctx)
}

// UpdateDesk applies the provided changes to a desk. Converting a bookable
// desk to any other type deletes its bookings in the same transaction; the
// number of removed bookings is returned. Coverage entries are left in
// place and simply stop mattering while the desk is not a staff desk.
func (s *DeskService) UpdateDesk(ctx context.Context, deskID string, input DeskUpdateInput) (desk persistence.Desk, removedBookings int, err error) {
	if s == nil || s.desks == nil {
		err = fmt.Errorf("desk service not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateDesk", "desk_id", deskID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "desk update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "desk updated", "desk_type", string(desk.DeskType), "removed_bookings", removedBookings)
	}()

	desk, err = s.desks.GetDesk(ctx, deskID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		return
	}
	previousType := desk.DeskType

	if input.DeskType != nil {
		deskType := persistence.DeskType(strings.ToLower(strings.TrimSpace(*input.DeskType)))
		switch deskType {
		case persistence.DeskTypeStaff, persistence.DeskTypeThesis, persistence.DeskTypeBlocked:
			desk.DeskType = deskType
		default:
			err = validationError("desk_type", "desk_type must be one of staff, thesis, blocked")
			return
		}
	}
	if input.Label != nil {
		label := strings.TrimSpace(*input.Label)
		if label == "" {
			err = validationError("label", "label cannot be empty")
			return
		}
		desk.Label = label
	}
	if input.HolderName != nil {
		desk.HolderName = strings.TrimSpace(*input.HolderName)
	}

	if desk.DeskType == persistence.DeskTypeStaff && desk.HolderName == "" {
		desk.HolderName = "Holder " + desk.Label
	}

	cascade := previousType == persistence.DeskTypeThesis && desk.DeskType != persistence.DeskTypeThesis
	removedBookings, err = s.desks.UpdateDesk(ctx, desk, cascade)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrNotFound
		}
		return
	}
	return
}
