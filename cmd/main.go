package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ochessi/tasknest/config"
	"github.com/Ochessi/tasknest/db"
	"github.com/Ochessi/tasknest/internal/auth/handler"
	repo "github.com/Ochessi/tasknest/internal/auth/repository/postgres"
	"github.com/Ochessi/tasknest/internal/auth/repository/redisstore"
	"github.com/Ochessi/tasknest/internal/auth/service"
	"github.com/Ochessi/tasknest/internal/logger"
	"github.com/Ochessi/tasknest/internal/mailer"
	authconstant "github.com/Ochessi/tasknest/pkg/constant"
	"github.com/Ochessi/tasknest/pkg/password"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		zlog.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient, err := db.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		zlog.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	userRepo := repo.NewPostgresRepository(dbPool)
	blacklist := redisstore.NewTokenBlacklist(redisClient)
	policy := password.NewDefaultPolicy(authconstant.MinPasswordLength)
	mail := mailer.NewLogMailer(zlog, cfg.MailFrom)

	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessExpiryMin, cfg.RefreshExpiryMin, blacklist)
	userService := service.NewUserService(userRepo, userRepo, tokenService, userRepo, policy, cfg, zlog)
	resetService := service.NewResetService(userRepo, userRepo, mail, policy, zlog)
	authHandler := handler.NewAuthHandler(userService, resetService, tokenService, zlog)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	zlog.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
