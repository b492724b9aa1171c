package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/Kartik-coder753/prism-disaster-management/internal/api"
	"github.com/Kartik-coder753/prism-disaster-management/internal/config"
	"github.com/Kartik-coder753/prism-disaster-management/internal/hub"
	"github.com/Kartik-coder753/prism-disaster-management/internal/logging"
	"github.com/Kartik-coder753/prism-disaster-management/internal/notify"
	"github.com/Kartik-coder753/prism-disaster-management/internal/observability"
	"github.com/Kartik-coder753/prism-disaster-management/internal/prediction"
	"github.com/Kartik-coder753/prism-disaster-management/internal/repository"
	"github.com/Kartik-coder753/prism-disaster-management/internal/weather"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	clock := clockwork.NewRealClock()

	db, err := repository.NewSQLiteDB(cfg.DB.Path, clock)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	broadcastHub := hub.NewHub()

	var provider notify.Provider
	if twilio, err := notify.NewTwilioProvider(cfg.Twilio); err != nil {
		slog.Warn("notification provider disabled", "error", err)
	} else {
		provider = twilio
	}
	dispatcher := notify.NewDispatcher(provider, metrics)

	gateway := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey)
	scheduler := prediction.NewScheduler(cfg.Prediction.Areas, gateway, db,
		broadcastHub, metrics, clock, cfg.Prediction.Interval)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx)
	}()

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(20))

	handler := api.NewHandler(db, broadcastHub, dispatcher, metrics)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	wg.Wait()
	broadcastHub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
