package main

import (
	"log"
	"os"
	"time"

	"wanderlust/database"
	"wanderlust/handlers"
	"wanderlust/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()
	defer database.CloseDB()

	// Wire handler dependencies (generation client)
	handlers.InitHandlers()

	// Register Prometheus metrics
	middleware.InitPrometheus()

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 45 * time.Second, // generation calls can take a while
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(middleware.MonitorMiddleware)

	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/forgot-password", handlers.ForgotPassword)

	// Activity routes
	activityGroup := api.Group("/activities")
	activityGroup.Use(middleware.AuthMiddleware)
	activityGroup.Post("/generate", handlers.GenerateActivity)
	activityGroup.Post("/:id/complete", handlers.CompleteActivity)
	activityGroup.Get("/active", handlers.GetActiveActivities)
	activityGroup.Get("/completed", handlers.GetCompletedActivities)

	// Quest routes
	questGroup := api.Group("/quests")
	questGroup.Use(middleware.AuthMiddleware)
	questGroup.Post("/generate", handlers.GenerateQuest)
	questGroup.Post("/:id/complete", handlers.CompleteQuest)
	questGroup.Get("/active", handlers.GetActiveQuests)
	questGroup.Get("/completed", handlers.GetCompletedQuests)

	// Challenge routes
	challengeGroup := api.Group("/challenges")
	challengeGroup.Use(middleware.AuthMiddleware)
	challengeGroup.Post("/generate", handlers.GenerateChallenge)
	challengeGroup.Post("/:id/accept", handlers.AcceptChallenge)
	challengeGroup.Post("/:id/tasks/:index/complete", handlers.CompleteChallengeTask)
	challengeGroup.Get("/active", handlers.GetActiveChallenges)
	challengeGroup.Get("/completed", handlers.GetCompletedChallenges)

	// Profile & settings
	api.Get("/profile", middleware.AuthMiddleware, handlers.GetProfile)
	api.Put("/settings", middleware.AuthMiddleware, handlers.UpdateSettings)

	// Push notification channel
	app.Get("/ws/notifications",
		middleware.AuthMiddleware,
		handlers.RequireWebSocketUpgrade,
		handlers.NotificationSocket)

	// Prometheus metrics, basic-auth protected
	metricsUser := os.Getenv("METRICS_USER")
	metricsPass := os.Getenv("METRICS_PASS")
	if metricsUser != "" && metricsPass != "" {
		app.Get("/metrics", basicauth.New(basicauth.Config{
			Users: map[string]string{metricsUser: metricsPass},
		}), adaptor.HTTPHandler(promhttp.Handler()))
	} else {
		log.Println("WARNING: METRICS_USER/METRICS_PASS not set, /metrics disabled")
	}

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("🤖 Generation model: %s", getEnv("OPENROUTER_MODEL", "mistralai/mistral-7b-instruct"))

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	if os.Getenv("OPENROUTER_API_KEY") == "" {
		log.Println("WARNING: OPENROUTER_API_KEY not set, generation endpoints will fail")
	}

	if os.Getenv("APP_ENV") == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
