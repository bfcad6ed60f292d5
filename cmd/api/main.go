package main

import (
	"log"
	"os"

	"agency-backoffice-api/config"
	"agency-backoffice-api/middleware"
	"agency-backoffice-api/models"
	"agency-backoffice-api/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	settings := config.Load()

	logFile, logWriter := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	if settings.SessionSecret == "" {
		if settings.IsRelease() {
			log.Fatal("SESSION_SECRET must be set in release mode")
		}
		log.Println("Warning: SESSION_SECRET is empty, using an insecure development secret")
		settings.SessionSecret = "dev-session-secret"
	}

	// Initialize database
	config.InitDB(settings)
	if err := models.AutoMigrate(config.DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	config.InitRedis(settings)
	if config.Redis != nil {
		defer config.Redis.Close()
	}

	if settings.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logWriter
	gin.DefaultErrorWriter = logWriter

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(settings.CORSAllowedOrigins))

	routes.SetupRoutes(router)

	// Create upload directory if not exists
	if err := os.MkdirAll(settings.UploadPath, os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create upload directory: %v", err)
	}

	log.Printf("Server starting on port %s", settings.ServerPort)
	if !settings.IsRelease() {
		log.Printf("Running in development mode (%s)", settings.Environment)
	}

	if err := router.Run(":" + settings.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
