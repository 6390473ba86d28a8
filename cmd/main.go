package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/belij2111/blogger-auth-service/config"
	"github.com/belij2111/blogger-auth-service/db"
	"github.com/belij2111/blogger-auth-service/internal/auth/handler"
	repo "github.com/belij2111/blogger-auth-service/internal/auth/repository/postgres"
	"github.com/belij2111/blogger-auth-service/internal/auth/service"
	"github.com/belij2111/blogger-auth-service/internal/notifier"
	"github.com/belij2111/blogger-auth-service/internal/ratelimit"
	"github.com/belij2111/blogger-auth-service/pkg/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Env); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Get().Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	userRepo := repo.NewUserRepository(dbPool)
	sessionRepo := repo.NewSessionRepository(dbPool)

	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	mailer := notifier.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.AppName)
	userService := service.NewUserService(userRepo, mailer, cfg.ConfirmationCodeTTLMin, cfg.RecoveryCodeTTLMin)
	sessionService := service.NewSessionService(userRepo, sessionRepo, tokenService)

	sessionService.StartExpirySweep(ctx, time.Duration(cfg.SessionSweepIntervalMin)*time.Minute)

	var limiterStore ratelimit.Store
	if cfg.RedisAddr != "" {
		redisStore, err := ratelimit.NewRedisStore(cfg.RedisAddr)
		if err != nil {
			logger.Get().Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisStore.Close()
		limiterStore = redisStore
	} else {
		limiterStore = ratelimit.NewMemoryStore()
	}

	authHandler := handler.NewAuthHandler(userService, sessionService, tokenService)
	securityHandler := handler.NewSecurityHandler(sessionService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, securityHandler, handler.RateLimitConfig{
		Store:  limiterStore,
		Max:    cfg.RateLimitMax,
		Window: time.Duration(cfg.RateLimitWindowSec) * time.Second,
	})

	logger.Get().Info("starting auth service", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Get().Fatal("server stopped", zap.Error(err))
	}
}
