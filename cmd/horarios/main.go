package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/cwiesse/horarios-api/api/swagger"
	"github.com/cwiesse/horarios-api/internal/handler"
	"github.com/cwiesse/horarios-api/internal/middleware"
	"github.com/cwiesse/horarios-api/internal/repository"
	"github.com/cwiesse/horarios-api/internal/service"
	"github.com/cwiesse/horarios-api/pkg/cache"
	"github.com/cwiesse/horarios-api/pkg/config"
	"github.com/cwiesse/horarios-api/pkg/database"
	"github.com/cwiesse/horarios-api/pkg/logger"
	corsmiddleware "github.com/cwiesse/horarios-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cwiesse/horarios-api/pkg/middleware/requestid"
)

// @title Horarios API
// @version 1.0.0
// @description School timetable administration service
// @BasePath /api/v1
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, running without cache", "error", err)
			cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Cache.TTL, logr, false)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
		}
	} else {
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Cache.TTL, logr, false)
	}

	validate := validator.New()

	sessionRepo := repository.NewSessionRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	sessionSvc := service.NewSessionService(sessionRepo, teacherRepo, roomRepo, courseRepo, cacheSvc, metricsSvc, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	exportSvc := service.NewExportService(sessionRepo, teacherRepo, roomRepo, courseRepo, cfg.Export.InstitutionName, logr)
	dashboardSvc := service.NewDashboardService(teacherRepo, roomRepo, courseRepo, sessionRepo, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

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

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Sessions:    handler.NewSessionHandler(sessionSvc),
		Teachers:    handler.NewTeacherHandler(teacherSvc),
		Rooms:       handler.NewRoomHandler(roomSvc),
		Courses:     handler.NewCourseHandler(courseSvc),
		Exports:     handler.NewExportHandler(exportSvc),
		Dashboard:   handler.NewDashboardHandler(dashboardSvc),
		Metrics:     handler.NewMetricsHandler(metricsSvc),
		AuthService: authSvc,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
