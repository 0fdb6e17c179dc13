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

	_ "github.com/ecole-stages/stage-api/api/swagger"
	"github.com/ecole-stages/stage-api/internal/handler"
	"github.com/ecole-stages/stage-api/internal/middleware"
	"github.com/ecole-stages/stage-api/internal/repository"
	"github.com/ecole-stages/stage-api/internal/service"
	"github.com/ecole-stages/stage-api/pkg/cache"
	"github.com/ecole-stages/stage-api/pkg/config"
	"github.com/ecole-stages/stage-api/pkg/database"
	"github.com/ecole-stages/stage-api/pkg/logger"
	corsmiddleware "github.com/ecole-stages/stage-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ecole-stages/stage-api/pkg/middleware/requestid"
)

// @title Stage API
// @version 1.0.0
// @description Internship declaration and review platform
// @BasePath /api
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	var cacheSvc *service.CacheService
	if cfg.Stats.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, statistics served uncached", zap.Error(err))
		} else {
			defer client.Close()
			cacheSvc = service.NewCacheService(repository.NewCacheRepository(client), metricsSvc, cfg.Stats.CacheTTL, logr, true)
		}
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	declarationRepo := repository.NewDeclarationRepository(db)

	statisticsSvc := service.NewStatisticsService(declarationRepo, cacheSvc, cfg.Stats.CacheTTL, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)
	declarationSvc := service.NewDeclarationService(declarationRepo, statisticsSvc, validate, logr)
	exportSvc := service.NewExportService(declarationRepo)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metricsSvc != nil {
		r.Use(middleware.Metrics(metricsSvc))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if metricsSvc != nil {
		r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r, cfg.APIPrefix,
		handler.NewUserHandler(userSvc),
		handler.NewDeclarationHandler(declarationSvc, exportSvc),
		handler.NewStatisticsHandler(statisticsSvc),
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
