package sqlite

import (
	"context"
	"fmt"

	"github.com/example/desk-booking/internal/persistence"
)

const (
	gridRows = 4
	gridCols = 6
)

// SeedGrid populates an empty desks table with the default 4x6 workspace
// layout: the first two rows are staff desks with placeholder holders, the
// third row is bookable by thesis students, and the fourth row is bookable
// except for its corner desks, which are blocked. A non-empty table is left
// untouched.
func SeedGrid(ctx context.Context, desks persistence.DeskRepository, idGenerator func() string) error {
	count, err := desks.CountDesks(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for row := 0; row < gridRows; row++ {
		for col := 0; col < gridCols; col++ {
			deskType := persistence.DeskTypeThesis
			if row < 2 {
				deskType = persistence.DeskTypeStaff
			} else if row == 3 && (col == 0 || col == gridCols-1) {
				deskType = persistence.DeskTypeBlocked
			}

			label := fmt.Sprintf("D%d%d", row+1, col+1)
			holder := ""
			if deskType == persistence.DeskTypeStaff {
				holder = "Holder " + label
			}

			desk := persistence.Desk{
				ID:         idGenerator(),
				Row:        row,
				Col:        col,
				DeskType:   deskType,
				Label:      label,
				HolderName: holder,
			}
			if err := desks.CreateDesk(ctx, desk); err != nil {
				return fmt.Errorf("failed to seed desk %s: %w", label, err)
			}
		}
	}
	return nil
}
