package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/desk-booking/internal/application"
	"github.com/example/desk-booking/internal/persistence"
)

type deskService interface {
	UpdateDesk(ctx context.Context, deskID string, input application.DeskUpdateInput) (persistence.Desk, int, error)
}

type statusService interface {
	DeskStatuses(ctx context.Context, day time.Time) ([]application.DeskStatus, error)
}

// DeskHandler serves the grid view and administrative desk edits.
type DeskHandler struct {
	service   deskService
	statuses  statusService
	responder responder
	logger    *slog.Logger
}

func NewDeskHandler(service deskService, statuses statusService, logger *slog.Logger) *DeskHandler {
	base := defaultLogger(logger)
	return &DeskHandler{service: service, statuses: statuses, responder: newResponder(base), logger: base}
}

func (h *DeskHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DeskHandler", operation, attrs...)
}

// List returns the status of every desk for the requested day.
func (h *DeskHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.statuses == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	day, err := dayFromQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDay)
		return
	}

	statuses, err := h.statuses.DeskStatuses(r.Context(), day)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to assemble desk statuses", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDeskStatusDTOs(statuses))
}

// Update applies an administrative edit and returns the desk's status for
// the requested day along with the number of bookings the edit removed.
func (h *DeskHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil || h.statuses == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	deskID := mux.Vars(r)["id"]

	day, err := dayFromQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDay)
		return
	}

	var req updateDeskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode desk update request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "desk_id", deskID)

	desk, removed, err := h.service.UpdateDesk(r.Context(), deskID, application.DeskUpdateInput{
		DeskType:   req.DeskType,
		Label:      req.Label,
		HolderName: req.HolderName,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "desk update rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	statuses, err := h.statuses.DeskStatuses(r.Context(), day)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to assemble desk status after update", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	response := updateDeskResponse{Desk: toDeskDTO(desk), RemovedBookings: removed}
	for _, status := range statuses {
		if status.Desk.ID == desk.ID {
			dto := toDeskStatusDTO(status)
			response.Status = &dto
			break
		}
	}

	logger.InfoContext(r.Context(), "desk updated", "removed_bookings", removed)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, response)
}

type updateDeskRequest struct {
	DeskType   *string `json:"desk_type"`
	Label      *string `json:"label"`
	HolderName *string `json:"holder_name"`
}

type updateDeskResponse struct {
	Desk            deskDTO        `json:"desk"`
	RemovedBookings int            `json:"removed_bookings"`
	Status          *deskStatusDTO `json:"status,omitempty"`
}
