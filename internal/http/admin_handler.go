package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/example/desk-booking/internal/application"
)

type adminService interface {
	DeleteUserData(ctx context.Context, username string) (application.AccountDeleted, error)
}

// AdminHandler serves administrator-only account operations.
type AdminHandler struct {
	service   adminService
	responder responder
	logger    *slog.Logger
}

func NewAdminHandler(service adminService, logger *slog.Logger) *AdminHandler {
	base := defaultLogger(logger)
	return &AdminHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AdminHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AdminHandler", operation, attrs...)
}

// DeleteUser removes an account and everything linked to it without a
// password check. The route sits behind HTTP Basic administrator auth.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	username := strings.TrimSpace(mux.Vars(r)["username"])
	if username == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingUsername)
		return
	}

	logger := h.log(r.Context(), "DeleteUser", "username", username)

	deleted, err := h.service.DeleteUserData(r.Context(), username)
	if err != nil {
		logger.ErrorContext(r.Context(), "admin account deletion rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "account deleted by administrator",
		"tokens", deleted.Tokens,
		"bookings", deleted.Bookings,
	)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDeletedResponse(deleted))
}
