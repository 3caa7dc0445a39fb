package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mintenance/mintenance/config"
	"github.com/mintenance/mintenance/internal/api/v1/middleware"
	"github.com/mintenance/mintenance/internal/db"
	"github.com/mintenance/mintenance/internal/db/repos"
	"github.com/mintenance/mintenance/internal/logger"
	"github.com/mintenance/mintenance/internal/services"
	"github.com/mintenance/mintenance/internal/types"
	"github.com/mintenance/mintenance/pkg/api/v1/handlers"
	"github.com/mintenance/mintenance/pkg/api/v1/routes"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment")
	}

	logger.InitializeAndConfigure()

	dbPort := 5432
	if portStr := os.Getenv("DB_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			logger.Fatalf("Invalid DB_PORT: %v", err)
		}
		dbPort = port
	}

	database, err := db.New(db.Options{
		Host:     os.Getenv("DB_HOST"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		Port:     dbPort,
		LogLevel: gormlogger.Warn,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Wire repositories and services
	jobRepo := repos.NewJobRepository(database)
	bidRepo := repos.NewBidRepository(database)
	escrowRepo := repos.NewEscrowRepository(database)
	userRepo := repos.NewUserRepository(database)

	jobService := services.NewJobService(jobRepo)
	bidService := services.NewBidService(bidRepo, jobRepo)
	escrowService := services.NewEscrowService(escrowRepo)
	userService := services.NewUserService(userRepo)

	// Background release sweeper
	schedule := config.GetEnv("RELEASE_SWEEP_SCHEDULE", services.DefaultSweepSchedule)
	worker := services.NewReleaseWorker(escrowService, schedule)
	if err := worker.Start(); err != nil {
		logger.Fatalf("Failed to start release worker: %v", err)
	}
	defer worker.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})
	app.Use(middleware.Logger())

	routes.RegisterRoutes(app,
		handlers.NewJobHandler(jobService),
		handlers.NewBidHandler(bidService),
		handlers.NewEscrowHandler(escrowService),
		handlers.NewUserHandler(userService),
	)

	// Shut down cleanly on SIGINT/SIGTERM so the sweeper can finish
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("Shutting down")
		_ = app.Shutdown()
	}()

	port := config.GetEnv("PORT", routes.DefaultPort)
	if err := app.Listen(":" + port); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(types.ErrServer(err.Error()))
}
