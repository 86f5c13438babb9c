package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/zobamart/marketplace-backend/internal/config"
	"github.com/zobamart/marketplace-backend/internal/db"
	httpHandlers "github.com/zobamart/marketplace-backend/internal/http/handlers"
	httpRouter "github.com/zobamart/marketplace-backend/internal/http/router"
	"github.com/zobamart/marketplace-backend/internal/logger"
	"github.com/zobamart/marketplace-backend/internal/repository"
	"github.com/zobamart/marketplace-backend/internal/service"
	"github.com/zobamart/marketplace-backend/internal/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: failed to load configuration: %v", err)
	}

	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: failed to connect to database: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: migrations failed: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	// Repositories.
	userRepo := repository.NewUserRepository(dbConn)
	payoutRepo := repository.NewPayoutRepository(dbConn)
	holdRepo := repository.NewHoldRepository(dbConn)
	refundRepo := repository.NewRefundRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Services.
	authService := service.NewAuthService(userRepo, tokenManager)
	notificationService := service.NewNotificationService(notificationRepo)
	payoutService := service.NewPayoutService(payoutRepo, holdRepo, refundRepo)
	holdService := service.NewHoldService(holdRepo)

	// Websockets.
	hub := ws.NewHub(ctx)
	hub.SetNotificationSaver(ws.NewNotificationServiceAdapter(notificationService))
	go hub.Run()

	payoutService.SetBroadcaster(hub)
	holdService.SetBroadcaster(hub)

	// HTTP handlers.
	authHandler := httpHandlers.NewAuthHandler(authService)
	payoutHandler := httpHandlers.NewPayoutHandler(payoutService)
	holdHandler := httpHandlers.NewHoldHandler(holdService)
	refundHandler := httpHandlers.NewRefundHandler(refundRepo)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(cfg, authHandler, payoutHandler, holdHandler, refundHandler, notificationHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: http server shutdown error: %v", err)
		}
	}()

	log.Printf("main: HTTP server listening on port %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: server exited with error: %v", err)
	}
}

func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: failed to close database: %v", err)
	}
}
