package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/desk-booking/internal/application"
	"github.com/example/desk-booking/internal/persistence"
)

type bookingService interface {
	CreateBookings(ctx context.Context, principal application.Principal, input application.BookingInput) ([]persistence.Booking, error)
	CancelBooking(ctx context.Context, principal application.Principal, bookingID, claimedName string) error
	ListBookings(ctx context.Context, day time.Time) ([]persistence.Booking, error)
}

// BookingHandler serves booking creation, cancellation and listing.
type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	day, err := parseDay(req.Day)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDay)
		return
	}

	logger := h.log(r.Context(), "Create", "username", principal.Username, "desk_id", req.DeskID, "day", req.Day)

	created, err := h.service.CreateBookings(r.Context(), principal, application.BookingInput{
		DeskID: strings.TrimSpace(req.DeskID),
		Day:    day,
		AM:     req.AM,
		PM:     req.PM,
	})
	if err != nil {
		var cErr *application.ConflictError
		if errors.As(err, &cErr) {
			logger.ErrorContext(r.Context(), "booking conflict", "error", err, "created", len(created))
			h.responder.writeJSON(r.Context(), w, http.StatusConflict, bookingConflictResponse{
				Message: cErr.Message,
				Created: toBookingDTOs(created),
			})
			return
		}
		logger.ErrorContext(r.Context(), "booking rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "bookings created", "count", len(created))
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, createBookingResponse{Created: toBookingDTOs(created)})
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	bookingID := mux.Vars(r)["id"]

	// Older clients send their name in the body; decode is best effort.
	var req cancelBookingRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	logger := h.log(r.Context(), "Cancel", "username", principal.Username, "booking_id", bookingID)

	if err := h.service.CancelBooking(r.Context(), principal, bookingID, req.BookedBy); err != nil {
		logger.ErrorContext(r.Context(), "cancellation rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	day, err := dayFromQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDay)
		return
	}

	bookings, err := h.service.ListBookings(r.Context(), day)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list bookings", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingDTOs(bookings))
}

// dayFromQuery reads the day query parameter, defaulting to today in UTC.
func dayFromQuery(r *http.Request) (time.Time, error) {
	value := strings.TrimSpace(r.URL.Query().Get("day"))
	if value == "" {
		return time.Now().UTC(), nil
	}
	return parseDay(value)
}

type createBookingRequest struct {
	DeskID string `json:"desk_id"`
	Day    string `json:"day"`
	AM     bool   `json:"am"`
	PM     bool   `json:"pm"`
}

type createBookingResponse struct {
	Created []bookingDTO `json:"created"`
}

type bookingConflictResponse struct {
	Message string       `json:"message"`
	Created []bookingDTO `json:"created"`
}

type cancelBookingRequest struct {
	BookedBy string `json:"booked_by"`
}
