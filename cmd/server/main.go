package main

import (
	"log"
	"os"

	"cardocs/internal/auth"
	"cardocs/internal/database"
	"cardocs/internal/handlers"
	"cardocs/internal/services"
	"cardocs/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; deployments configure the environment directly
	_ = godotenv.Load()

	logger := utils.NewLogger()
	defer logger.Sync()

	// Initialize database
	db, err := database.Connect(logger)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Wire the expiry engine and its notifiers
	emailService := services.NewEmailService(logger)
	whatsappService := services.NewWhatsAppService()
	engine := services.NewExpiryEngine(db, emailService, whatsappService, services.HorizonDaysFromEnv(), logger)

	// Scheduled passes run until shutdown
	worker := services.NewExpiryWorker(engine, logger)
	if err := worker.Start(); err != nil {
		logger.Fatal("failed to start expiry worker", zap.Error(err))
	}
	defer worker.Stop()

	// Initialize Gin router
	router := gin.Default()

	// Configure trusted proxies
	router.SetTrustedProxies([]string{"127.0.0.1"})
	router.Use(cors.Default())

	reminderHandler := handlers.NewReminderHandler(db, engine, logger)
	settingsHandler := handlers.NewSettingsHandler(services.NewSettingsService(db), logger)

	// Basic routes
	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)

	// Protected routes (bearer token required)
	protected := router.Group("")
	protected.Use(auth.AuthMiddleware())
	{
		protected.GET("/reminders/pending", reminderHandler.ListPending)
		protected.POST("/reminders/:id/mark-sent", reminderHandler.MarkSent)
		protected.GET("/settings", settingsHandler.Get)
		protected.PUT("/settings", settingsHandler.Update)
	}

	// Operational routes (admin token required)
	admin := router.Group("/admin")
	admin.Use(auth.RateLimitMiddleware(), auth.AdminMiddleware())
	{
		admin.POST("/expiry-check", reminderHandler.RunCheck)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start the server
	logger.Info("server starting", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
