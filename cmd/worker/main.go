package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"contacts-admin/internal/config"
	"contacts-admin/internal/database"
	"contacts-admin/internal/utils"
	"contacts-admin/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		utils.GetLogger().Fatalf("Failed to load configuration: %v", err)
	}
	log := utils.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient, err := database.NewRedis(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Create Asynq server
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		},
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger: log,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.WithError(err).WithField("task", task.Type()).Error("Task failed")
			}),
		},
	)

	// Register task handlers
	mux := asynq.NewServeMux()
	worker.RegisterHandlers(ctx, mux, db, redisClient, cfg)

	// Start worker
	log.WithField("backend", cfg.ContactBackend).Infof("Worker starting with concurrency: %d", cfg.WorkerConcurrency)
	if err := srv.Start(mux); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	<-ctx.Done()
	log.Info("Gracefully shutting down worker...")
	srv.Shutdown()

	log.Info("Worker exited")
}
