package main

import (
	"context"
	"net"

	"github.com/rs/zerolog/log"

	"github.com/chefshare/backend/config"
	"github.com/chefshare/backend/internal/api"
	"github.com/chefshare/backend/internal/database"
	"github.com/chefshare/backend/internal/logger"
	"github.com/chefshare/backend/internal/router"
	"github.com/chefshare/backend/internal/server"
	"github.com/chefshare/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(cfg.Environment)

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Rate limiting degrades to pass-through when Redis is unreachable.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, rate limiting disabled")
		redisClient = nil
	}

	store, err := config.NewS3Store(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize blob store")
	}
	if err := store.SetupBucketPolicy(context.Background()); err != nil {
		log.Warn().Err(err).Msg("could not apply bucket policy, uploads may not be publicly readable")
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	uploadService := service.NewUploadService(store)

	handlers := api.New(authService, recipeService, uploadService)
	engine := router.New(handlers, redisClient, cfg.Environment)

	addr := net.JoinHostPort(cfg.ServerHost, cfg.ServerPort)
	if err := server.New(addr, engine).Run(); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}
