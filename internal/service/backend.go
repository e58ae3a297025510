package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"contacts-admin/internal/apiclient"
	"contacts-admin/internal/config"
	"contacts-admin/internal/repository"
)

// ContactBackend is where imported contacts are written and exports are read
// from.
type ContactBackend interface {
	ContactCreator
	ContactSource
}

// NewContactBackend picks the local repository or the remote contacts API
// according to CONTACT_BACKEND.
func NewContactBackend(ctx context.Context, cfg *config.Config, db *sqlx.DB, logger *logrus.Logger) ContactBackend {
	if cfg.ContactBackend == config.BackendAPI {
		logger.WithField("base_url", cfg.ContactAPIBaseURL).Info("Using remote contacts API backend")
		return apiclient.NewFromConfig(ctx, cfg, logger)
	}
	return repository.NewContactRepository(db)
}

// NewImportServiceFromConfig builds the import pipeline shared by the web
// server and the worker. redisClient may be nil.
func NewImportServiceFromConfig(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, backend ContactCreator, logger *logrus.Logger) *ImportService {
	importer := NewContactImporter(NewExcelService(cfg.ExportDateLayout), backend, ImporterConfig{
		MaxFileSize:       int64(cfg.UploadMaxSize),
		DefaultCategoryID: cfg.ImportDefaultCategoryID,
		MaxErrorLines:     cfg.ImportMaxErrorLines,
	}, logger)

	var progress *RedisProgressStore
	if redisClient != nil {
		progress = NewRedisProgressStore(redisClient, logger)
	}

	return NewImportService(repository.NewImportSessionRepository(db), importer, progress, cfg.UploadPath, logger)
}
