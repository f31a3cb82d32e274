package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"hireos/internal/config"
	"hireos/internal/handlers"
	"hireos/internal/providers"
	"hireos/internal/repositories"
	"hireos/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	candidateRepo := repositories.NewCandidateRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	offerRepo := repositories.NewOfferRepository(db)
	integrationRepo := repositories.NewIntegrationRepository(db)
	runRepo := repositories.NewSyncRunRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	resumeParser := services.NewResumeParserService()
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	log.Println("✅ Services initialized successfully")

	// Initialize provider factory and sync planner
	providerFactory := providers.NewFactory(cfg.Google.ClientID, cfg.Google.ClientSecret)
	newSource := services.SourceFactory(providerFactory.ForIntegration)

	planner := services.NewSyncPlanner(candidateRepo, jobRepo, cfg.Sync.FetchLimit)
	log.Println("✅ Sync planner initialized")

	// Initialize worker
	worker := services.NewSyncWorker(
		integrationRepo,
		runRepo,
		planner,
		newSource,
		cfg.Sync.WorkerConcurrency,
		cfg.Sync.PollInterval,
	)
	log.Println("✅ Worker initialized successfully")

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	candidateHandler := handlers.NewCandidateHandler(
		candidateRepo,
		storageService,
		resumeParser,
		cfg.Storage.MaxFileSize,
	)
	jobHandler := handlers.NewJobHandler(jobRepo)
	pipelineHandler := handlers.NewPipelineHandler(interviewRepo, offerRepo, candidateRepo)
	integrationHandler := handlers.NewIntegrationHandler(integrationRepo)
	syncHandler := handlers.NewSyncHandler(integrationRepo, runRepo, planner, newSource)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "HireOS API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Public auth endpoints
	api.Post("/auth/register", authHandler.HandleRegister)
	api.Post("/auth/login", authHandler.HandleLogin)

	// Everything else requires a valid token
	protected := api.Group("", handlers.RequireAuth(authService))

	protected.Get("/jobs", jobHandler.HandleList)
	protected.Post("/jobs", jobHandler.HandleCreate)
	protected.Get("/jobs/:id", jobHandler.HandleGet)
	protected.Put("/jobs/:id", jobHandler.HandleUpdate)
	protected.Delete("/jobs/:id", jobHandler.HandleDelete)

	protected.Get("/candidates", candidateHandler.HandleList)
	protected.Post("/candidates", candidateHandler.HandleCreate)
	protected.Get("/candidates/:id", candidateHandler.HandleGet)
	protected.Put("/candidates/:id", candidateHandler.HandleUpdate)
	protected.Delete("/candidates/:id", candidateHandler.HandleDelete)
	protected.Post("/candidates/:id/resume", candidateHandler.HandleUploadResume)
	protected.Get("/candidates/:id/interviews", pipelineHandler.HandleListInterviews)
	protected.Get("/candidates/:id/offers", pipelineHandler.HandleListOffers)

	protected.Post("/interviews", pipelineHandler.HandleCreateInterview)
	protected.Put("/interviews/:id", pipelineHandler.HandleUpdateInterview)
	protected.Delete("/interviews/:id", pipelineHandler.HandleDeleteInterview)

	protected.Post("/offers", pipelineHandler.HandleCreateOffer)
	protected.Put("/offers/:id", pipelineHandler.HandleUpdateOffer)
	protected.Delete("/offers/:id", pipelineHandler.HandleDeleteOffer)

	protected.Get("/integrations", integrationHandler.HandleList)
	protected.Post("/integrations", integrationHandler.HandleCreate)
	protected.Get("/integrations/:id", integrationHandler.HandleGet)
	protected.Put("/integrations/:id", integrationHandler.HandleUpdate)
	protected.Delete("/integrations/:id", integrationHandler.HandleDelete)
	protected.Post("/integrations/:id/sync/preview", syncHandler.HandlePreview)
	protected.Post("/integrations/:id/sync/execute", syncHandler.HandleExecute)
	protected.Post("/integrations/:id/sync/push", syncHandler.HandlePush)
	protected.Get("/integrations/:id/sync/runs", syncHandler.HandleListRuns)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "HireOS API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/auth/register",
				"POST /api/v1/auth/login",
				"GET /api/v1/candidates",
				"GET /api/v1/jobs",
				"POST /api/v1/integrations/:id/sync/preview",
				"POST /api/v1/integrations/:id/sync/execute",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
