package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/docs_gateway/internal/config"
	"github.com/Skotchmaster/docs_gateway/internal/db"
	"github.com/Skotchmaster/docs_gateway/internal/events"
	"github.com/Skotchmaster/docs_gateway/internal/filesapi"
	"github.com/Skotchmaster/docs_gateway/internal/httpserver"
	"github.com/Skotchmaster/docs_gateway/internal/logging"
	"github.com/Skotchmaster/docs_gateway/internal/middleware"
	"github.com/Skotchmaster/docs_gateway/internal/repo"
	"github.com/Skotchmaster/docs_gateway/internal/service"
	"github.com/Skotchmaster/docs_gateway/internal/tokens"
	"github.com/labstack/echo/v4"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	publisher := events.New(cfg.KafkaBrokers)
	rp := repo.New(gdb)
	issuer := tokens.NewIssuer(
		[]byte(cfg.JWTAccessSecret),
		[]byte(cfg.JWTRefreshSecret),
		cfg.AccessTokenAge,
		cfg.RefreshTokenAge,
	)

	authSvc := &service.AuthService{
		Users:      rp,
		Sessions:   rp,
		Tokens:     issuer,
		Events:     publisher,
		SessionAge: cfg.SessionAge,
	}
	files := filesapi.NewClient(cfg.FilesAPIBaseURL)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 35 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(middleware.Common(logger)...)

	httpserver.Register(e, &httpserver.Deps{
		UserHandler: &httpserver.UserHTTP{
			Auth:         authSvc,
			Accounts:     &service.AccountService{Users: rp, Events: publisher},
			SessionAge:   cfg.SessionAge,
			CookieSecure: cfg.CookieSecure,
		},
		CategoryHandler: &httpserver.CategoryHTTP{Files: files},
		FilesHandler:    &httpserver.FilesHTTP{Files: files},
		Authorizer:      authSvc,
		DB:              rp,
	})

	go func() {
		logger.Info("gateway_started", "addr", cfg.ListenAddr(), "files_api", cfg.FilesAPIBaseURL, "kafka", len(cfg.KafkaBrokers) > 0)
		if err := e.Start(cfg.ListenAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("publisher close", "error", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
