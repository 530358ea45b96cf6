package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/example/desk-booking/internal/application"
	"github.com/example/desk-booking/internal/persistence"
)

type coverageService interface {
	CreateCoverage(ctx context.Context, input application.CoverageInput) (persistence.Coverage, error)
	DeleteCoverage(ctx context.Context, id string) error
	ClearCoverages(ctx context.Context, deskID string) (int, error)
	ListCoverages(ctx context.Context, deskID string) ([]persistence.Coverage, error)
}

// CoverageHandler serves the administrative away-period endpoints.
type CoverageHandler struct {
	service   coverageService
	responder responder
	logger    *slog.Logger
}

func NewCoverageHandler(service coverageService, logger *slog.Logger) *CoverageHandler {
	base := defaultLogger(logger)
	return &CoverageHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CoverageHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CoverageHandler", operation, attrs...)
}

func (h *CoverageHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req createCoverageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode coverage request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	start, err := parseDay(req.StartDay)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDay)
		return
	}
	end, err := parseDay(req.EndDay)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDay)
		return
	}

	logger := h.log(r.Context(), "Create", "desk_id", req.DeskID)

	coverage, err := h.service.CreateCoverage(r.Context(), application.CoverageInput{
		DeskID:       strings.TrimSpace(req.DeskID),
		StartDay:     start,
		EndDay:       end,
		TempOccupant: req.TempOccupant,
		Note:         req.Note,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "coverage rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "coverage created", "coverage_id", coverage.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toCoverageDTO(coverage))
}

func (h *CoverageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	coverageID := mux.Vars(r)["id"]
	logger := h.log(r.Context(), "Delete", "coverage_id", coverageID)

	if err := h.service.DeleteCoverage(r.Context(), coverageID); err != nil {
		logger.ErrorContext(r.Context(), "coverage deletion rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "coverage deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CoverageHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	deskID := strings.TrimSpace(r.URL.Query().Get("desk_id"))
	if deskID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingDeskID)
		return
	}

	logger := h.log(r.Context(), "Clear", "desk_id", deskID)

	removed, err := h.service.ClearCoverages(r.Context(), deskID)
	if err != nil {
		logger.ErrorContext(r.Context(), "coverage clearing rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "coverages cleared", "count", removed)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, clearCoveragesResponse{Removed: removed})
}

func (h *CoverageHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	deskID := strings.TrimSpace(r.URL.Query().Get("desk_id"))

	coverages, err := h.service.ListCoverages(r.Context(), deskID)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list coverages", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]coverageDTO, len(coverages))
	for i, coverage := range coverages {
		dtos[i] = toCoverageDTO(coverage)
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, dtos)
}

type createCoverageRequest struct {
	DeskID       string `json:"desk_id"`
	StartDay     string `json:"start_day"`
	EndDay       string `json:"end_day"`
	TempOccupant string `json:"temp_occupant"`
	Note         string `json:"note"`
}

type clearCoveragesResponse struct {
	Removed int `json:"removed"`
}
