package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/lovebridge/internal/config"
	"github.com/msomdec/lovebridge/internal/handler"
	"github.com/msomdec/lovebridge/internal/i18n"
	"github.com/msomdec/lovebridge/internal/repository/sqlite"
	"github.com/msomdec/lovebridge/internal/service"
)

const loginAttemptsPerMinute = 10

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	notificationService := service.NewNotificationService(db.Notifications())
	authService := service.NewAuthService(db.Users(), cfg.JWTSecret, cfg.BcryptCost)
	userService := service.NewUserService(db.Users(), db.Verifications(), db.Media(), db.Preferences())
	matchService := service.NewMatchService(db.Matches(), db.Users(), db.Preferences(), notificationService, service.MatchOptions{
		AllowInitiatorResponse: cfg.AllowInitiatorResponse,
	})
	discoveryService := service.NewDiscoveryService(db.Matches(), db.Users(), db.Preferences(), db.Media(), service.DiscoveryOptions{
		DefaultLimit: cfg.DiscoveryDefaultLimit,
		Ranked:       cfg.DiscoveryRanked,
	})
	messageService := service.NewMessageService(db.Messages(), db.Users(), service.StubTranslator{}, notificationService)
	giftService := service.NewGiftService(db.Gifts(), db.Users(), notificationService)

	// Seed the gift catalog (idempotent).
	if cfg.SeedGifts {
		if err := giftService.SeedCatalog(context.Background()); err != nil {
			slog.Error("failed to seed gift catalog", "error", err)
			os.Exit(1)
		}
		slog.Info("gift catalog seeded")
	}

	proposeLimiter := service.PerMinute(cfg.ProposeRatePerMinute)
	defer proposeLimiter.Stop()
	loginLimiter := service.PerMinute(loginAttemptsPerMinute)
	defer loginLimiter.Stop()

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Services{
		Auth:           authService,
		Users:          userService,
		Matches:        matchService,
		Discovery:      discoveryService,
		Messages:       messageService,
		Gifts:          giftService,
		Notifications:  notificationService,
		ProposeLimiter: proposeLimiter,
		LoginLimiter:   loginLimiter,
		Bundle:         i18n.Default(),
		DefaultLocale:  cfg.DefaultLocale,
		CookieSecure:   cfg.CookieSecure,
		DB:             db.SqlDB,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Wrap(mux, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
