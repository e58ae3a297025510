package worker

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"contacts-admin/internal/config"
	"contacts-admin/internal/service"
	"contacts-admin/internal/utils"
)

func RegisterHandlers(ctx context.Context, mux *asynq.ServeMux, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	logger := utils.GetLogger()
	backend := service.NewContactBackend(ctx, cfg, db, logger)
	imports := service.NewImportServiceFromConfig(cfg, db, redis, backend, logger)

	mux.HandleFunc(TypeContactImport, NewImportTaskHandler(imports, logger).Handle)
}
