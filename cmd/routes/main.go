package main

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"contacts-admin/internal/config"
	"contacts-admin/internal/router"
	"contacts-admin/internal/utils"
)

// Prints the route table without connecting to any database or Redis.
func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.GetLogger().Fatalf("Failed to load configuration: %v", err)
	}

	app := fiber.New()
	router.Setup(app, nil, nil, cfg)

	fmt.Println("=== Registered Routes ===")
	for _, route := range app.GetRoutes(true) {
		fmt.Printf("%-8s %s\n", route.Method, route.Path)
	}
}
