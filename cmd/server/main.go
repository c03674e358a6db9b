// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dmbrands/reorder/backend-go/internal/api"
	"github.com/dmbrands/reorder/backend-go/internal/cache"
	"github.com/dmbrands/reorder/backend-go/internal/config"
	"github.com/dmbrands/reorder/backend-go/internal/reorder"
	"github.com/dmbrands/reorder/backend-go/internal/repository/postgres"
	"github.com/dmbrands/reorder/backend-go/internal/service"
	"github.com/dmbrands/reorder/backend-go/internal/zoho"
	"github.com/dmbrands/reorder/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	if cfg.Server.Mode == "debug" {
		logger.Setup("debug", true)
		gin.SetMode(gin.DebugMode)
	} else {
		logger.Setup("info", false)
		gin.SetMode(gin.ReleaseMode)
	}

	snapshots, err := cache.NewSnapshotCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("cache unavailable, running without snapshot cache")
		snapshots = cache.NewNoopSnapshotCache()
	}

	zohoClient := zoho.NewClient(cfg.Zoho)

	// The invoice mirror is the preferred velocity source: it answers both
	// history windows with two queries instead of hundreds of API round
	// trips. Without a database the live API serves velocity directly.
	var velocity reorder.VelocitySource = zohoClient
	var firstSales service.FirstSaleSource
	if db, err := postgres.NewDB(&cfg.Database); err == nil {
		salesRepo := postgres.NewSalesRepository(db)
		velocity = salesRepo
		firstSales = salesRepo
		defer db.Close()
	} else {
		log.Warn().Err(err).Msg("database unavailable, serving velocity from live API")
	}

	reorderService := service.NewReorderService(cfg, zohoClient, zohoClient, velocity, firstSales, snapshots, nil)

	router := api.NewRouter(&api.Services{ReorderService: reorderService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
