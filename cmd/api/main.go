package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-referral-backend/config"
	_ "go-referral-backend/docs" // Important for Swagger
	v1 "go-referral-backend/internal/delivery/http/v1"
	"go-referral-backend/internal/repository/airtable"
	"go-referral-backend/internal/usecase"
	"go-referral-backend/pkg/logger"
	"go-referral-backend/pkg/redis"
	"go-referral-backend/pkg/validation"

	"log"
)

// @title           Referral Intake API
// @version         1.0
// @description     Accepts referral submissions, validates them, rejects duplicates by email and records them in Airtable.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting referral backend", "port", cfg.Port, "env", cfg.AppEnv)

	// 3. Setup Redis (optional; rate limiting falls back to in-memory)
	if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting will use in-memory fallback", "error", err)
	}
	defer redis.Close()

	// 4. Setup External Store Client
	store := airtable.NewClient(airtable.Config{
		APIURL:      cfg.AirtableAPIURL,
		AccessToken: cfg.AirtableAccessToken,
		BaseID:      cfg.AirtableBaseID,
		TableID:     cfg.AirtableTableID,
		Timeout:     time.Duration(cfg.StoreTimeoutSeconds) * time.Second,
	})

	// 5. Setup UseCases
	validate := validation.New()
	referralUC := usecase.NewReferralUsecase(store, validate)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ReferralUC: referralUC,
		Config:     cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
