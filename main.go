package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"

	"sgp/internal/handlers"
	"sgp/internal/repositories"
	"sgp/internal/services"
)

func main() {
	// --- Configuration ---
	// Every value is read here once and injected explicitly; no package
	// computes a default data path on its own.
	viper.SetDefault("SGP_PORT", ":8080")
	viper.SetDefault("SGP_STORE_DRIVER", "json")
	viper.SetDefault("SGP_DATA_PATH", "data/products.json")
	viper.SetDefault("SGP_DSN", "data/products.db")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("SGP_PORT")

	// --- Initialize Persistence ---
	repo, err := buildSnapshotRepository(
		viper.GetString("SGP_STORE_DRIVER"),
		viper.GetString("SGP_DATA_PATH"),
		viper.GetString("SGP_DSN"),
	)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot repository: %v", err)
	}

	// --- Initialize Services ---
	inventoryService, err := services.NewInventoryService(repo)
	if err != nil {
		log.Fatalf("Failed to initialize inventory service: %v", err)
	}

	// --- Initialize Handlers ---
	productHandler := handlers.NewProductHandler(inventoryService)
	transferHandler := handlers.NewTransferHandler(inventoryService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)
	transferHandler.RegisterRoutes(apiV1)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		count, value := inventoryService.Summary()
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":          "healthy",
			"time":            time.Now().Format(time.RFC3339),
			"products":        count,
			"inventory_value": value,
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// buildSnapshotRepository selects the persistence backend from config:
// "json" (default) keeps the single-file snapshot, "sqlite" and "postgres"
// keep the same whole-snapshot semantics in a database table.
func buildSnapshotRepository(driver, dataPath, dsn string) (repositories.SnapshotRepository, error) {
	if driver == "json" {
		return repositories.NewJSONSnapshotRepository(dataPath), nil
	}
	dialector, err := repositories.OpenDialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	return repositories.NewGORMSnapshotRepository(dialector)
}
