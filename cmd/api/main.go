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

	_ "github.com/lumora/studyplan-api/api/swagger"
	"github.com/lumora/studyplan-api/internal/handler"
	"github.com/lumora/studyplan-api/internal/middleware"
	"github.com/lumora/studyplan-api/internal/repository"
	"github.com/lumora/studyplan-api/internal/service"
	"github.com/lumora/studyplan-api/pkg/cache"
	"github.com/lumora/studyplan-api/pkg/config"
	"github.com/lumora/studyplan-api/pkg/database"
	"github.com/lumora/studyplan-api/pkg/logger"
	corsmiddleware "github.com/lumora/studyplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/lumora/studyplan-api/pkg/middleware/requestid"
)

// @title Study Plan API
// @version 1.0.0
// @description Exam preparation planner: subjects, generated study plans, revisions and progress tracking
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	planRepo := repository.NewPlanRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Planner.CacheTTL, logr)
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "studyplan-api",
	})
	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)
	planSvc := service.NewPlanService(subjectRepo, planRepo, cacheSvc, metricsSvc, logr, service.PlanConfig{
		HorizonDays:   cfg.Planner.HorizonDays,
		MaxDailyHours: cfg.Planner.MaxDailyHours,
		CacheTTL:      cfg.Planner.CacheTTL,
	})
	progressSvc := service.NewProgressService(sessionRepo, subjectRepo, validate, logr)
	exportSvc := service.NewExportService(planRepo, logr, cfg.Exports.Enabled)

	authHandler := handler.NewAuthHandler(authSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	planHandler := handler.NewPlanHandler(planSvc, exportSvc)
	sessionHandler := handler.NewSessionHandler(progressSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/subjects", subjectHandler.List)
		protected.POST("/subjects", subjectHandler.Create)
		protected.GET("/subjects/:id", subjectHandler.Get)
		protected.PUT("/subjects/:id", subjectHandler.Update)
		protected.DELETE("/subjects/:id", subjectHandler.Delete)

		protected.POST("/plan/generate", planHandler.Generate)
		protected.GET("/plan", planHandler.Get)
		protected.GET("/plan/export", planHandler.Export)

		protected.POST("/sessions", sessionHandler.Create)
		protected.GET("/sessions", sessionHandler.List)
		protected.GET("/progress", sessionHandler.Progress)

		protected.GET("/metrics/snapshot", metricsHandler.Snapshot)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
