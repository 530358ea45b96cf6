package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig wires handlers and middleware into the HTTP router.
type RouterConfig struct {
	Auth      *AuthHandler
	Desks     *DeskHandler
	Bookings  *BookingHandler
	Coverages *CoverageHandler
	Admin     *AdminHandler

	// TokenAuth guards the authenticated routes, AdminAuth the
	// administrative ones. Middleware wraps everything.
	TokenAuth  func(http.Handler) http.Handler
	AdminAuth  func(http.Handler) http.Handler
	Middleware []func(http.Handler) http.Handler

	Health Pinger
}

// NewRouter assembles the full route table. Routes fall into three tiers:
// public (login, signup, health), bearer-token and HTTP Basic admin.
func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()

	if cfg.Auth != nil {
		router.HandleFunc("/auth/login", cfg.Auth.Login).Methods(http.MethodPost)
		router.HandleFunc("/auth/signup", cfg.Auth.Signup).Methods(http.MethodPost)
		router.HandleFunc("/auth/register", cfg.Auth.Signup).Methods(http.MethodPost)
	}

	router.HandleFunc("/health", healthHandler(cfg.Health)).Methods(http.MethodGet)

	authed := router.NewRoute().Subrouter()
	if cfg.TokenAuth != nil {
		authed.Use(mux.MiddlewareFunc(cfg.TokenAuth))
	}
	if cfg.Auth != nil {
		authed.HandleFunc("/auth/logout", cfg.Auth.Logout).Methods(http.MethodPost)
		authed.HandleFunc("/auth/change-password", cfg.Auth.ChangePassword).Methods(http.MethodPost)
		authed.HandleFunc("/auth/delete-account", cfg.Auth.DeleteAccount).Methods(http.MethodPost)
	}
	if cfg.Desks != nil {
		authed.HandleFunc("/desks", cfg.Desks.List).Methods(http.MethodGet)
	}
	if cfg.Bookings != nil {
		authed.HandleFunc("/bookings", cfg.Bookings.List).Methods(http.MethodGet)
		authed.HandleFunc("/bookings", cfg.Bookings.Create).Methods(http.MethodPost)
		authed.HandleFunc("/bookings/{id}", cfg.Bookings.Cancel).Methods(http.MethodDelete)
	}

	admin := router.NewRoute().Subrouter()
	if cfg.AdminAuth != nil {
		admin.Use(mux.MiddlewareFunc(cfg.AdminAuth))
	}
	if cfg.Desks != nil {
		admin.HandleFunc("/desks/{id}", cfg.Desks.Update).Methods(http.MethodPatch)
	}
	if cfg.Coverages != nil {
		admin.HandleFunc("/coverages/clear", cfg.Coverages.Clear).Methods(http.MethodPost)
		admin.HandleFunc("/coverages", cfg.Coverages.List).Methods(http.MethodGet)
		admin.HandleFunc("/coverages", cfg.Coverages.Create).Methods(http.MethodPost)
		admin.HandleFunc("/coverages/{id}", cfg.Coverages.Delete).Methods(http.MethodDelete)
	}
	if cfg.Admin != nil {
		admin.HandleFunc("/admin/users/{username}", cfg.Admin.DeleteUser).Methods(http.MethodDelete)
	}

	var handler http.Handler = router
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}

func healthHandler(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := `{"status":"ok"}`
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body = `{"status":"unavailable"}`
			}
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
