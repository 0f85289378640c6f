package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/terpsched/schedule-api/api/swagger"
	"github.com/terpsched/schedule-api/internal/handler"
	appmiddleware "github.com/terpsched/schedule-api/internal/middleware"
	"github.com/terpsched/schedule-api/internal/provider"
	"github.com/terpsched/schedule-api/internal/repository"
	"github.com/terpsched/schedule-api/internal/service"
	"github.com/terpsched/schedule-api/pkg/cache"
	"github.com/terpsched/schedule-api/pkg/config"
	"github.com/terpsched/schedule-api/pkg/database"
	"github.com/terpsched/schedule-api/pkg/export"
	"github.com/terpsched/schedule-api/pkg/logger"
	corsmiddleware "github.com/terpsched/schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/terpsched/schedule-api/pkg/middleware/requestid"
)

// @title TerpSched Schedule API
// @version 1.0.0
// @description Generates every conflict-free course schedule for a term, ranked by instructor quality
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	sections, err := newSectionProvider(cfg, logr, metricsSvc)
	if err != nil {
		logr.Sugar().Fatalw("section provider init failed", "source", cfg.Providers.Source, "error", err)
	}

	var ratingStore service.RatingStore
	if cfg.Scheduler.EnableRatingCache {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, rating cache disabled", "error", err)
		} else {
			ratingStore = repository.NewRatingCacheRepository(redisClient, cfg.Scheduler.RatingCacheTTL)
		}
	}

	planetTerp := provider.NewPlanetTerp(cfg.Providers.PlanetTerpBaseURL, cfg.Providers.Timeout, logr, metricsSvc.ObserveProvider)
	ratingSvc := service.NewRatingService(planetTerp, ratingStore, metricsSvc, logr)

	validate := validator.New()
	scheduleSvc := service.NewScheduleService(sections, ratingSvc, metricsSvc, validate, logr, service.ScheduleConfig{
		DefaultTerm:     cfg.Scheduler.DefaultTerm,
		ProviderTimeout: cfg.Scheduler.ProviderTimeout,
		RankOrder:       service.ParseRankOrder(cfg.Scheduler.RankOrder),
	})

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, export.NewICSExporter("", cfg.Export.DefaultWeeks), validate)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(appmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	api.POST("/schedule", scheduleHandler.Create)
	api.POST("/schedule/export", scheduleHandler.Export)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "source", cfg.Providers.Source)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newSectionProvider(cfg *config.Config, logr *zap.Logger, metricsSvc *service.MetricsService) (service.SectionProvider, error) {
	switch cfg.Providers.Source {
	case "", "umdio":
		return provider.NewUMDIO(cfg.Providers.UMDIOBaseURL, cfg.Providers.Timeout, logr, metricsSvc.ObserveProvider), nil
	case "testudo":
		return provider.NewTestudo(cfg.Providers.TestudoBaseURL, cfg.Providers.Timeout, logr, metricsSvc.ObserveProvider), nil
	case "catalog":
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return repository.NewCatalogRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown section source %q", cfg.Providers.Source)
	}
}
