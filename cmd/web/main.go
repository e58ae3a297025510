package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"contacts-admin/internal/config"
	"contacts-admin/internal/database"
	"contacts-admin/internal/router"
	"contacts-admin/internal/utils"
)

// multipartOverhead is the room left in the request body limit for form
// fields around the uploaded file.
const multipartOverhead = 1 << 20

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		utils.GetLogger().Fatalf("Failed to load configuration: %v", err)
	}
	log := utils.GetLogger()

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Redis (optional - for progress and background jobs)
	redisClient, err := database.NewRedis(context.Background(), cfg)
	if err != nil {
		log.Warnf("Failed to connect to Redis: %v", err)
		log.Warn("Application will continue without Redis (imports run inline, no live progress)")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		BodyLimit:    cfg.UploadMaxSize + multipartOverhead,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Setup routes
	router.Setup(app, db, redisClient, cfg)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := fmt.Sprintf(":%s", cfg.AppPort)
	log.WithField("backend", cfg.ContactBackend).Infof("Server starting on %s", port)
	if err := app.Listen(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Info("Server exited")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(utils.Response{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}
