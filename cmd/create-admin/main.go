// Bootstrap script for the first admin account. Sign-up never grants admin,
// so this is how an operator gets one.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"
	"agency-backoffice-api/services"
)

func main() {
	settings := config.Load()

	var name, email, password string
	flag.StringVar(&name, "name", "Administrator", "display name for a new account")
	flag.StringVar(&email, "email", "", "admin e-mail (required)")
	flag.StringVar(&password, "password", os.Getenv("ADMIN_PASSWORD"), "password for a new account (default $ADMIN_PASSWORD)")
	flag.Parse()

	if email == "" {
		log.Fatal("-email is required")
	}

	// Initialize database
	config.InitDB(settings)
	if err := models.AutoMigrate(config.DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	user, created, err := services.NewUserService(config.DB).EnsureAdmin(context.Background(), name, email, password)
	if err != nil {
		log.Fatalf("Failed to ensure admin %s: %v", email, err)
	}

	if created {
		log.Printf("Created admin account %s (id %d)", user.Email, user.UserID)
	} else {
		log.Printf("Account %s already exists, role is now %s", user.Email, user.Role)
	}
}
