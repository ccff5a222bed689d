package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/api/swagger"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/handler"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/middleware"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/repository"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/service"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/cache"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/config"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/database"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/logger"
	corsmiddleware "github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/middleware/cors"
	reqidmiddleware "github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/middleware/requestid"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/storage"
)

// @title Biblioteca Virtual API
// @version 1.0.0
// @description Multi-role library management backend
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	files, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare uploads directory", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	bookSvc := service.NewBookService(
		bookRepo,
		files,
		storage.NewUploadValidator(cfg.Uploads.MaxFileSizeBytes),
		storage.NewSignedURLSigner(cfg.Uploads.DownloadURLSecret, cfg.Uploads.DownloadURLTTL),
		cacheSvc,
		validate,
		logr,
	)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	bookHandler := handler.NewBookHandler(bookSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)

		users := api.Group("/users", middleware.TokenAuth(authSvc), middleware.AdminOnly())
		{
			users.POST("", userHandler.Create)
			users.GET("", userHandler.List)
			users.DELETE("/:id", userHandler.Delete)
		}

		books := api.Group("/books", middleware.TokenAuth(authSvc))
		{
			books.GET("", bookHandler.List)
			books.GET("/export", middleware.ProfesorOrAdmin(), bookHandler.Export)
			books.GET("/:id", bookHandler.Get)
			books.GET("/:id/download", bookHandler.Download)
			books.POST("", middleware.ProfesorOrAdmin(), bookHandler.Create)
			books.PUT("/:id", middleware.ProfesorOrAdmin(), bookHandler.Update)
			books.DELETE("/:id", middleware.ProfesorOrAdmin(), bookHandler.Delete)
		}
	}

	// Uploaded binaries and the static frontend are served by this process,
	// matching the single-service deployment.
	r.Static("/uploads", files.Dir())
	r.Static("/app", "./web")
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/app/")
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
