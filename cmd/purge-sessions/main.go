package main

import (
	"context"
	"log"

	"agency-backoffice-api/config"
	"agency-backoffice-api/services"
)

func main() {
	log.Println("Purging expired sessions and spent reset tokens...")

	settings := config.Load()
	config.InitDB(settings)

	ctx := context.Background()

	sessions, err := services.NewSessionService(config.DB, settings.SessionSecret, settings.SessionTTL).PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
	tokens, err := services.NewAuthService(config.DB, nil).PurgeResetTokens(ctx)
	if err != nil {
		log.Fatalf("failed to purge reset tokens: %v", err)
	}

	log.Printf("Removed %d expired sessions and %d reset tokens", sessions, tokens)
}
