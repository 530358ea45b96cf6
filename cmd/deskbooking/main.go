package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/desk-booking/internal/application"
	"github.com/example/desk-booking/internal/config"
	httptransport "github.com/example/desk-booking/internal/http"
	"github.com/example/desk-booking/internal/logging"
	"github.com/example/desk-booking/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to configure logging:", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(ctx, cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	idGenerator := uuid.NewString
	tokenGenerator := randomToken
	now := time.Now

	deskRepo := sqlite.NewDeskRepository(pool)
	bookingRepo := sqlite.NewBookingRepository(pool)
	coverageRepo := sqlite.NewCoverageRepository(pool)
	userRepo := sqlite.NewUserRepository(pool)
	tokenRepo := sqlite.NewTokenRepository(pool)

	if err := sqlite.SeedGrid(ctx, deskRepo, idGenerator); err != nil {
		logger.Error("failed to seed desk grid", "error", err)
		os.Exit(1)
	}

	authService := application.NewAuthService(userRepo, tokenRepo, cfg.StaticUsers, tokenGenerator, now, cfg.TokenTTL, logger)
	bookingService := application.NewBookingService(bookingRepo, deskRepo, coverageRepo, idGenerator, logger)
	deskService := application.NewDeskService(deskRepo, logger)
	coverageService := application.NewCoverageService(coverageRepo, deskRepo, idGenerator, logger)
	cleanupService := application.NewCleanupService(bookingRepo, tokenRepo, userRepo, cfg.BookingsRetention, cfg.InactiveUserTTL, cfg.CleanupInterval, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:       httptransport.NewAuthHandler(authService, logger),
		Desks:      httptransport.NewDeskHandler(deskService, bookingService, logger),
		Bookings:   httptransport.NewBookingHandler(bookingService, logger),
		Coverages:  httptransport.NewCoverageHandler(coverageService, logger),
		Admin:      httptransport.NewAdminHandler(authService, logger),
		TokenAuth:  httptransport.RequireToken(authService, logger),
		AdminAuth:  httptransport.RequireAdmin(cfg.AdminUser, cfg.AdminPass, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
		Health:     pool,
	})

	cleanupDone := make(chan struct{})
	go func() {
		defer close(cleanupDone)
		cleanupService.Run(ctx)
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("desk booking API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}

	<-cleanupDone
	logger.Info("server stopped")
}

func randomToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
