package main

import (
	"log/slog"
	"os"

	"github.com/LGEM-2025/scoring-service/internal/auth"
	"github.com/LGEM-2025/scoring-service/internal/cache"
	"github.com/LGEM-2025/scoring-service/internal/config"
	"github.com/LGEM-2025/scoring-service/internal/handlers"
	"github.com/LGEM-2025/scoring-service/internal/repositories/postgres"
	"github.com/LGEM-2025/scoring-service/internal/services"
	"github.com/LGEM-2025/scoring-service/internal/utils"
	"github.com/LGEM-2025/scoring-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogLogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to connect to database")
		os.Exit(1)
	}

	var cacheService cache.CacheService
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache", "error", err)
		cacheService = cache.NewNoopCacheService()
	} else {
		cacheService = cache.NewRedisCacheService(redisClient, logger)
		defer redisClient.Close()
	}

	eventCfg := config.LoadEventConfig()
	publisher, err := eventCfg.CreateEventPublisher(slogLogger)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher")
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	validator := utils.NewValidator()
	roster := auth.NewCasdoorRosterService(cfg, logger)

	assessmentService := services.NewAssessmentService(repo, slogLogger)
	skillService := services.NewSkillService(repo, slogLogger)
	attemptService := services.NewAttemptService(repo, slogLogger, validator, cacheService, publisher, skillService, cfg)
	analyticsService := services.NewAnalyticsService(repo, slogLogger, cacheService, roster, publisher, cfg)
	exportService := services.NewExportService(analyticsService, slogLogger)

	handlerManager := handlers.NewHandlerManager(
		assessmentService,
		attemptService,
		skillService,
		analyticsService,
		exportService,
		validator,
		logger,
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(utils.ContextLogger(logger))

	handlerManager.SetupRoutes(router)

	logger.Info("Starting scoring service",
		"port", cfg.Port,
		"environment", cfg.Environment)

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.LogError(err, "Server stopped")
		os.Exit(1)
	}
}
