package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farmaindex/backend-go/internal/analysis"
	"github.com/farmaindex/backend-go/internal/api"
	"github.com/farmaindex/backend-go/internal/assistant"
	"github.com/farmaindex/backend-go/internal/cache"
	"github.com/farmaindex/backend-go/internal/config"
	"github.com/farmaindex/backend-go/internal/repository/postgres"
	"github.com/farmaindex/backend-go/internal/service"
	"github.com/farmaindex/backend-go/internal/storage"
	"github.com/farmaindex/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	curves, err := analysis.NewCurveConfig(cfg.Analysis.CurveAMin, cfg.Analysis.CurveBMin, cfg.Analysis.CurveCMin)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid curve thresholds")
	}
	engine := analysis.NewEngine(curves)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	runRepo := postgres.NewRunRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)

	runCache, err := cache.NewRunCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, running without it")
		runCache = cache.NewNoopRunCache()
	}

	var store storage.ObjectStorage
	if cfg.Storage.Endpoint != "" {
		store, err = storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
	}

	analysisService := service.NewAnalysisService(engine, runRepo, clientRepo, store, runCache, cfg.Analysis.TopN)
	runService := service.NewRunService(runRepo, runCache)
	clientService := service.NewClientService(clientRepo)
	reportService := service.NewReportService(runRepo, clientRepo, runService, analysisService, assistant.NewClient(cfg.Assistant))

	router := api.NewRouter(&api.Services{
		AnalysisService: analysisService,
		RunService:      runService,
		ClientService:   clientService,
		ReportService:   reportService,
	}, membershipRepo, cfg.Auth.JWTSecret, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
