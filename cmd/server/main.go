package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"uniapply/docs"
	"uniapply/internal/auth"
	"uniapply/internal/cache"
	"uniapply/internal/config"
	"uniapply/internal/db"
	"uniapply/internal/handler"
	"uniapply/internal/llm"
	"uniapply/internal/logger"
	"uniapply/internal/repository"
	"uniapply/internal/router"
	"uniapply/internal/service"
	"uniapply/internal/storage"
)

// @title University Application API
// @version 1.0
// @description Registration, university catalog, student applications and faculty recommendations.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./config.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	gormDB, err := db.NewMySQL(cfg.DB.DSN)
	if err != nil {
		zlog.Fatal("database init", zap.Error(err))
	}
	if err := db.Migrate(gormDB, cfg.DB.Reset, zlog); err != nil {
		zlog.Fatal("database migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.Redis)
	defer cacheClient.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		zlog.Warn("redis unreachable, caching disabled until it comes back", zap.Error(err))
	}
	cancel()

	sink, err := storage.New(cfg.Storage)
	if err != nil {
		zlog.Fatal("storage init", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	universityRepo := repository.NewUniversityRepository(gormDB)
	applicationRepo := repository.NewApplicationRepository(gormDB)

	// Auth
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Services
	userService := service.NewUserService(userRepo, sink, zlog.Named("users"))
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	universityService := service.NewUniversityService(universityRepo, cacheClient, sink, zlog.Named("universities"))
	applicationService := service.NewApplicationService(applicationRepo, universityRepo, sink, zlog.Named("applications"))
	recommendationService := service.NewRecommendationService(universityRepo, llm.NewClient(cfg.LLM), zlog.Named("recommendations"))

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, zlog, jwtService, userRepo, router.Handlers{
		User:           handler.NewUserHandler(userService),
		Auth:           handler.NewAuthHandler(authService),
		University:     handler.NewUniversityHandler(universityService),
		Application:    handler.NewApplicationHandler(applicationService),
		Recommendation: handler.NewRecommendationHandler(recommendationService),
	})

	if cfg.Server.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.Server.SwaggerHost
	}
	zlog.Info("swagger documentation available", zap.String("url", cfg.Server.BaseURL+"/swagger/index.html"))

	go func() {
		addr := ":" + cfg.Server.Port
		zlog.Info("server starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	ctx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := e.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
