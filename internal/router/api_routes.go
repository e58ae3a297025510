package router

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"contacts-admin/internal/config"
	"contacts-admin/internal/handler"
	"contacts-admin/internal/middleware"
	"contacts-admin/internal/repository"
	"contacts-admin/internal/service"
	"contacts-admin/internal/utils"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redis *redis.Client,
	cfg *config.Config,
) {
	logger := utils.GetLogger()

	// Initialize repositories
	contactRepo := repository.NewContactRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	sessionRepo := repository.NewImportSessionRepository(db)

	// Initialize services
	excelService := service.NewExcelService(cfg.ExportDateLayout)
	backend := service.NewContactBackend(context.Background(), cfg, db, logger)
	importService := service.NewImportServiceFromConfig(cfg, db, redis, backend, logger)

	// Initialize Asynq client (optional - only if Redis is available)
	var queue handler.TaskEnqueuer
	if redis != nil {
		queue = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize handlers
	contactHandler := handler.NewContactHandler(contactRepo, backend, excelService, cfg, logger)
	importHandler := handler.NewImportHandler(sessionRepo, importService, excelService, queue, cfg, logger)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	// Contact routes
	contacts := protected.Group("/contacts")
	contacts.Get("/", contactHandler.GetContacts)
	contacts.Get("/export", contactHandler.ExportContacts)
	contacts.Get("/template", contactHandler.DownloadTemplate)
	contacts.Post("/import", importHandler.ImportContacts)
	contacts.Get("/:id", contactHandler.GetContact)
	contacts.Post("/", contactHandler.CreateContact)

	// Import session routes
	imports := protected.Group("/imports")
	imports.Get("/", importHandler.GetImports)
	imports.Get("/export", importHandler.ExportImports)
	imports.Get("/:code", importHandler.GetImport)
	imports.Get("/:code/progress", importHandler.GetProgress)

	// Category routes
	categories := protected.Group("/categories")
	categories.Get("/", categoryHandler.GetCategories)
	categories.Post("/", middleware.AdminOnly(), categoryHandler.CreateCategory)
}
