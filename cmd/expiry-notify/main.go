package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"
	"agency-backoffice-api/services"
)

func main() {
	settings := config.Load()

	var (
		noRecord bool
		digest   bool
		migrate  bool
	)
	flag.BoolVar(&noRecord, "no-record", false, "do not store a notification_job_runs row")
	flag.BoolVar(&digest, "digest", settings.ExpiryDigestEmail, "e-mail the created alerts to every admin")
	flag.BoolVar(&migrate, "migrate", false, "run schema migrations before the job")
	flag.Parse()

	config.InitDB(settings)
	if migrate {
		if err := models.AutoMigrate(config.DB); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
	config.InitRedis(settings)

	job := services.NewExpiryNotificationJobService(config.DB, services.NewJobLocker(config.DB, config.Redis))
	if digest {
		if m := config.NewSMTPMailer(settings); m.Configured() {
			job.WithMailer(m)
		} else {
			log.Println("Warning: digest requested but SMTP is not configured")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := job.Run(ctx, &services.ExpiryJobInput{
		TriggerSource: "cli",
		LockName:      services.ExpiryJobLockName,
		RecordRun:     !noRecord,
		SendDigest:    digest,
	})
	if err != nil {
		if errors.Is(err, services.ErrExpiryJobAlreadyRunning) {
			log.Println("another expiry notification run holds the lock, nothing to do")
			return
		}
		log.Fatalf("expiry notification job failed: %v", err)
	}

	fmt.Printf("Expiring policies found: %d\n", summary.Found)
	fmt.Printf("Notifications created: %d, skipped: %d, failed: %d\n", summary.Created, summary.Skipped, summary.Failed)
	for _, msg := range summary.Errors {
		fmt.Printf("  error: %s\n", msg)
	}

	if summary.Failed > 0 {
		os.Exit(2)
	}
}
