package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"resumeforge/internal/api"
	"resumeforge/internal/config"
	"resumeforge/internal/database"
	"resumeforge/internal/schema"
	"resumeforge/internal/storage"
	"resumeforge/internal/templates"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	log.Printf("api bootstrapped with db host=%s port=%d db=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	ctx := context.Background()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Printf("database connection ready")

	templateService := templates.NewService(templates.NewStore(db))
	if cfg.API.SeedBuiltins {
		builtins, err := schema.LoadBuiltins()
		if err != nil {
			log.Fatalf("load builtin templates: %v", err)
		}
		if err := templateService.Seed(ctx, builtins); err != nil {
			log.Fatalf("seed builtin templates: %v", err)
		}
		log.Printf("seeded %d builtin templates", len(builtins))
	}

	storageClient, err := storage.NewClient(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Error("close asynq client failed", slog.Any("error", err))
		}
	}()

	router := api.NewRouter(api.Deps{
		DB:             db,
		Templates:      templateService,
		Queue:          asynqClient,
		Links:          storageClient,
		Redis:          redisClient,
		Logger:         logger,
		Render:         cfg.Render.Options(),
		Export:         cfg.Export,
		AllowedOrigins: cfg.API.Origins(),
	})

	address := fmt.Sprintf(":%d", cfg.API.Port)
	log.Printf("api listening on %s", address)

	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}
