package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// ExpiryWindow is the lookahead for "expiring soon" policies.
	ExpiryWindow = 10 * 24 * time.Hour

	ExpiryAlertTitle  = "Policy Expiry Alert"
	ExpiryJobLockName = "policy_expiry_notifications"
)

var (
	ErrExpiryJobAlreadyRunning = errors.New("expiry notification job already running")
)

type ExpiryJobInput struct {
	TriggerSource string
	LockName      string
	RecordRun     bool
	SendDigest    bool
}

// ExpiryJobSummary reports the outcome of one run. Found counts the policies
// that qualified at query time; Skipped counts inserts that lost a race
// against a concurrent run.
type ExpiryJobSummary struct {
	Found         int                   `json:"found"`
	Created       int                   `json:"created"`
	Skipped       int                   `json:"skipped"`
	Failed        int                   `json:"failed"`
	Errors        []string              `json:"errors,omitempty"`
	Notifications []models.Notification `json:"-"`
}

// ExpiryItemError describes a notification that could not be created.
type ExpiryItemError struct {
	PolicyID     uint
	PolicyNumber string
	Err          error
}

func (e *ExpiryItemError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("policy %s (id %d): %v", e.PolicyNumber, e.PolicyID, e.Err)
}

func (e *ExpiryItemError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

type ExpiryNotificationJobService struct {
	db     *gorm.DB
	locker JobLocker
	runs   *NotificationJobRunService
	mailer config.Mailer
	now    func() time.Time
}

func NewExpiryNotificationJobService(db *gorm.DB, locker JobLocker) *ExpiryNotificationJobService {
	if db == nil {
		db = config.DB
	}
	if locker == nil {
		locker = NoopLocker{}
	}
	return &ExpiryNotificationJobService{
		db:     db,
		locker: locker,
		runs:   NewNotificationJobRunService(db),
		now:    time.Now,
	}
}

// WithMailer enables the admin digest e-mail.
func (s *ExpiryNotificationJobService) WithMailer(m config.Mailer) *ExpiryNotificationJobService {
	s.mailer = m
	return s
}

// ExpiryMessage renders the alert body for a policy. The date is the UTC
// calendar date of the expiry.
func ExpiryMessage(p models.Policy) string {
	return fmt.Sprintf("Policy #%s is expiring on %s. Please renew it.",
		p.PolicyNumber, p.ExpiryDate.UTC().Format("2006-01-02"))
}

// FindExpiringPolicies returns active policies expiring in [now, now+ExpiryWindow)
// that have no notification yet, soonest first.
func (s *ExpiryNotificationJobService) FindExpiringPolicies(ctx context.Context, now time.Time) ([]models.Policy, error) {
	now = now.UTC()
	var policies []models.Policy
	err := s.db.WithContext(ctx).
		Where("status = ?", models.PolicyStatusActive).
		Where("expiry_date >= ? AND expiry_date < ?", now, now.Add(ExpiryWindow)).
		Where("NOT EXISTS (SELECT 1 FROM notifications n WHERE n.policy_id = policies.policy_id)").
		Order("expiry_date ASC").
		Order("policy_id ASC").
		Find(&policies).Error
	return policies, err
}

// Run creates one expiry notification per qualifying policy. Item failures are
// isolated and reported in the summary; only lock, query and cancellation
// errors fail the run.
func (s *ExpiryNotificationJobService) Run(ctx context.Context, input *ExpiryJobInput) (*ExpiryJobSummary, error) {
	if input == nil {
		input = &ExpiryJobInput{}
	}
	summary := &ExpiryJobSummary{}

	release, err := s.locker.Acquire(ctx, input.LockName)
	if err != nil {
		if errors.Is(err, ErrLockHeld) {
			return nil, ErrExpiryJobAlreadyRunning
		}
		return nil, err
	}
	defer func() {
		if relErr := release(); relErr != nil {
			log.Printf("failed to release expiry notification lock: %v", relErr)
		}
	}()

	var run *models.NotificationJobRun
	if input.RecordRun {
		run, err = s.runs.Start(input.TriggerSource)
		if err != nil {
			return nil, err
		}
	}

	var finalErr error
	if run != nil {
		defer func() {
			if finalErr != nil {
				if err := s.runs.MarkFailure(run.ID, summary, finalErr); err != nil {
					log.Printf("failed to mark expiry notification run failure: %v", err)
				}
			} else if err := s.runs.MarkSuccess(run.ID, summary); err != nil {
				log.Printf("failed to mark expiry notification run success: %v", err)
			}
		}()
	}

	now := s.now().UTC()
	policies, err := s.FindExpiringPolicies(ctx, now)
	if err != nil {
		finalErr = err
		return nil, err
	}
	summary.Found = len(policies)

	for _, p := range policies {
		if err := ctx.Err(); err != nil {
			finalErr = err
			return summary, err
		}

		created, err := s.createExpiryNotification(ctx, p, now)
		if err != nil {
			itemErr := &ExpiryItemError{PolicyID: p.PolicyID, PolicyNumber: p.PolicyNumber, Err: err}
			summary.Failed++
			summary.Errors = append(summary.Errors, itemErr.Error())
			log.Printf("expiry notification failed: %v", itemErr)
			continue
		}
		if created == nil {
			summary.Skipped++
			continue
		}
		summary.Created++
		summary.Notifications = append(summary.Notifications, *created)
	}

	if input.SendDigest && summary.Created > 0 {
		s.sendDigest(ctx, summary.Notifications)
	}

	return summary, nil
}

// createExpiryNotification returns nil without error when the unique
// (policy_id, type) index already holds a row for the policy.
func (s *ExpiryNotificationJobService) createExpiryNotification(ctx context.Context, p models.Policy, now time.Time) (*models.Notification, error) {
	policyID := p.PolicyID
	n := models.Notification{
		PolicyID:  &policyID,
		Type:      models.NotificationTypePolicyExpiry,
		Title:     ExpiryAlertTitle,
		Message:   ExpiryMessage(p),
		IsRead:    false,
		CreatedAt: now,
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&n)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &n, nil
}

func (s *ExpiryNotificationJobService) sendDigest(ctx context.Context, created []models.Notification) {
	if s.mailer == nil {
		return
	}
	var admins []models.User
	if err := s.db.WithContext(ctx).Where("role = ?", models.RoleAdmin).Find(&admins).Error; err != nil {
		log.Printf("expiry digest: failed to load admins: %v", err)
		return
	}
	to := make([]string, 0, len(admins))
	for _, a := range admins {
		if a.Email != "" {
			to = append(to, a.Email)
		}
	}
	subject := fmt.Sprintf("%d policies expiring soon", len(created))
	if err := s.mailer.Send(to, subject, BuildExpiryDigestHTML(created)); err != nil {
		log.Printf("expiry digest email send failed (to=%v): %v", to, err)
	}
}
