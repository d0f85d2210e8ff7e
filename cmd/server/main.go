package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymdesk/internal/adapters/email"
	web "gymdesk/internal/adapters/http"
	"gymdesk/internal/adapters/http/perf"
	"gymdesk/internal/adapters/identity"
	"gymdesk/internal/adapters/storage"
	accountstore "gymdesk/internal/adapters/storage/account"
	billstore "gymdesk/internal/adapters/storage/bill"
	"gymdesk/internal/adapters/storage/docstore"
	memberstore "gymdesk/internal/adapters/storage/member"
	notificationstore "gymdesk/internal/adapters/storage/notification"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database_ready", "path", cfg.DBPath)

	// Performance instrumentation: slow-query log on the connection,
	// per-collection samples in the ring buffer
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, time.Duration(cfg.SlowQueryMs)*time.Millisecond, logger)
	docs := docstore.NewSQLiteStore(timedDB, docstore.WithCollector(collector))

	ids := identity.NewService(accountstore.NewDocStore(docs), identity.WithLogger(logger))
	go ids.RunSessionPruner(ctx)
	ids.OnIdentityChange(func(id identity.Identity, signedIn bool) {
		event := "signed_out"
		if signedIn {
			event = "signed_in"
		}
		logger.Info("auth_event", "event", event, "account_id", id.ID, "role", id.Role)
	})

	if err := orchestrators.ExecuteSeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, orchestrators.SeedAdminDeps{
		Identity: ids,
		Logger:   logger,
	}); err != nil {
		return err
	}

	sender := email.New(cfg.ResendKey, cfg.EmailFrom, logger)
	if cfg.ResendKey == "" {
		if cfg.IsProduction() {
			logger.Warn("GYM_RESEND_KEY is not set; broadcast emails are DISABLED in production")
		} else {
			logger.Info("email sender configured (noop, set GYM_RESEND_KEY for real delivery)")
		}
	}

	srv, err := web.NewServer(web.Deps{
		Stores: web.Stores{
			Members:       memberstore.NewDocStore(docs),
			Bills:         billstore.NewDocStore(docs),
			Notifications: notificationstore.NewDocStore(docs),
		},
		Identity: ids,
		Email:    sender,
		Perf:     collector,
		DB:       timedDB,
		Logger:   logger,
	}, web.Options{
		GymName:            cfg.GymName,
		CurrencySymbol:     cfg.CurrencySymbol,
		ReceiptPrefix:      cfg.ReceiptPrefix,
		EmailFrom:          cfg.EmailFrom,
		CSRFKey:            cfg.CSRFKey,
		SecureCookies:      cfg.IsProduction(),
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		SlowRequest:        time.Duration(cfg.SlowRequestMs) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	go srv.Limiter().RunPruner(ctx)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
