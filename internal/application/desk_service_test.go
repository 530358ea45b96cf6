package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/desk-booking/internal/persistence"
)

func strPtr(s string) *string { return &s }

func TestDeskService_UpdateDesk(t *testing.T) {
	t.Parallel()

	t.Run("cascades booking deletion when a bookable desk changes type", func(t *testing.T) {
		t.Parallel()

		desks := newDeskStoreStub(persistence.Desk{ID: "d1", DeskType: persistence.DeskTypeThesis, Label: "D31"})
		desks.cascadeRemoved = 3
		svc := NewDeskService(desks, nil)

		desk, removed, err := svc.UpdateDesk(context.Background(), "d1", DeskUpdateInput{DeskType: strPtr("blocked")})
		if err != nil {
			t.Fatalf("UpdateDesk failed: %v", err)
		}
		if desk.DeskType != persistence.DeskTypeBlocked {
			t.Fatalf("expected blocked, got %s", desk.DeskType)
		}
		if removed != 3 {
			t.Fatalf("expected 3 removed bookings, got %d", removed)
		}
		if len(desks.updateCalls) != 1 || !desks.updateCalls[0].cascade {
			t.Fatalf("expected a cascading update, got %+v", desks.updateCalls)
		}
	})

	t.Run("does not cascade when the desk stays bookable", func(t *testing.T) {
		t.Parallel()

		desks := newDeskStoreStub(persistence.Desk{ID: "d1", DeskType: persistence.DeskTypeThesis, Label: "D31"})
		svc := NewDeskService(desks, nil)

		_, removed, err := svc.UpdateDesk(context.Background(), "d1", DeskUpdateInput{Label: strPtr("D99")})
		if err != nil {
			t.Fatalf("UpdateDesk failed: %v", err)
		}
		if removed != 0 {
			t.Fatalf("expected no removed bookings, got %d", removed)
		}
		if desks.updateCalls[0].cascade {
			t.Fatal("expected no cascade for a label edit")
		}
	})

	t.Run("does not cascade when a staff desk changes type", func(t *testing.T) {
		t.Parallel()

		desks := newDeskStoreStub(persistence.Desk{ID: "d1", DeskType: persistence.DeskTypeStaff, Label: "D11", HolderName: "Dr. Smith"})
		svc := NewDeskService(desks, nil)

		_, _, err := svc.UpdateDesk(context.Background(), "d1", DeskUpdateInput{DeskType: strPtr("blocked")})
		if err != nil {
			t.Fatalf("UpdateDesk failed: %v", err)
		}
		if desks.updateCalls[0].cascade {
			t.Fatal("staff desks have no bookings to cascade")
		}
	})

	t.Run("fills a placeholder holder for staff desks", func(t *testing.T) {
		t.Parallel()

		desks := newDeskStoreStub(persistence.Desk{ID: "d1", DeskType: persistence.DeskTypeThesis, Label: "D31"})
		svc := NewDeskService(desks, nil)

		desk, _, err := svc.UpdateDesk(context.Background(), "d1", DeskUpdateInput{DeskType: strPtr("staff")})
		if err != nil {
			t.Fatalf("UpdateDesk failed: %v", err)
		}
		if desk.HolderName != "Holder D31" {
			t.Fatalf("expected placeholder holder, got %q", desk.HolderName)
		}
	})

	t.Run("keeps an explicit holder name", func(t *testing.T) {
		t.Parallel()

		desks := newDeskStoreStub(persistence.Desk{ID: "d1", DeskType: persistence.DeskTypeThesis, Label: "D31"})
		svc := NewDeskService(desks, nil)

		desk, _, err := svc.UpdateDesk(context.Background(), "d1", DeskUpdateInput{DeskType: strPtr("staff"), HolderName: strPtr("Dr. Jones")})
		if err != nil {
			t.Fatalf("UpdateDesk failed: %v", err)
		}
		if desk.HolderName != "Dr. Jones" {
			t.Fatalf("expected explicit holder, got %q", desk.HolderName)
		}
	})

	t.Run("rejects unknown desk types", func(t *testing.T) {
		t.Parallel()

		desks := newDeskStoreStub(persistence.Desk{ID: "d1", DeskType: persistence.DeskTypeThesis, Label: "D31"})
		svc := NewDeskService(desks, nil)

		_, _, err := svc.UpdateDesk(context.Background(), "d1", DeskUpdateInput{DeskType: strPtr("lounge")})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if len(desks.updateCalls) != 0 {
			t.Fatal("expected no update on invalid input")
		}
	})

	t.Run("rejects empty labels", func(t *testing.T) {
		t.Parallel()

		desks := newDeskStoreStub(persistence.Desk{ID: "d1", DeskType: persistence.DeskTypeThesis, Label: "D31"})
		svc := NewDeskService(desks, nil)

		_, _, err := svc.UpdateDesk(context.Background(), "d1", DeskUpdateInput{Label: strPtr("   ")})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("reports unknown desks", func(t *testing.T) {
		t.Parallel()

		svc := NewDeskService(newDeskStoreStub(), nil)
		_, _, err := svc.UpdateDesk(context.Background(), "ghost", DeskUpdateInput{})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeskService_ListDesks(t *testing.T) {
	t.Parallel()

	desks := newDeskStoreStub(
		persistence.Desk{ID: "d2", Row: 1, Col: 0, DeskType: persistence.DeskTypeStaff, Label: "D21"},
		persistence.Desk{ID: "d1", Row: 0, Col: 0, DeskType: persistence.DeskTypeStaff, Label: "D11"},
	)
	svc := NewDeskService(desks, nil)

	listed, err := svc.ListDesks(context.Background())
	if err != nil {
		t.Fatalf("ListDesks failed: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != "d1" {
		t.Fatalf("expected row-major order, got %v", listed)
	}
}
