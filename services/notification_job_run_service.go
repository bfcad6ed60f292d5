package services

import (
	"errors"
	"fmt"
	"time"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"

	"gorm.io/gorm"
)

var (
	ErrNotificationJobRunNotFound = errors.New("notification job run not found")
)

type NotificationJobRunService struct {
	db *gorm.DB
}

func NewNotificationJobRunService(db *gorm.DB) *NotificationJobRunService {
	if db == nil {
		db = config.DB
	}
	return &NotificationJobRunService{db: db}
}

func (s *NotificationJobRunService) Start(trigger string) (*models.NotificationJobRun, error) {
	if trigger == "" {
		trigger = "unknown"
	}
	run := &models.NotificationJobRun{
		TriggerSource: trigger,
		Status:        models.NotificationJobRunStatusRunning,
	}
	if err := s.db.Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (s *NotificationJobRunService) MarkSuccess(runID uint, summary *ExpiryJobSummary) error {
	return s.finish(runID, models.NotificationJobRunStatusSuccess, summary, nil)
}

func (s *NotificationJobRunService) MarkFailure(runID uint, summary *ExpiryJobSummary, err error) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return s.finish(runID, models.NotificationJobRunStatusFailed, summary, &msg)
}

// Latest returns the most recent runs, newest first.
func (s *NotificationJobRunService) Latest(limit int) ([]models.NotificationJobRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var runs []models.NotificationJobRun
	err := s.db.Order("started_at DESC").Order("id DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

func (s *NotificationJobRunService) finish(runID uint, status string, summary *ExpiryJobSummary, errMsg *string) error {
	updates := map[string]interface{}{
		"status":      status,
		"finished_at": time.Now().UTC(),
	}
	if summary != nil {
		updates["policies_found"] = summary.Found
		updates["notifications_created"] = summary.Created
		updates["notifications_skipped"] = summary.Skipped
		updates["notifications_failed"] = summary.Failed
	}
	if errMsg != nil {
		if len(*errMsg) > 1000 {
			updates["error_message"] = fmt.Sprintf("%s...", (*errMsg)[:997])
		} else {
			updates["error_message"] = *errMsg
		}
	}
	res := s.db.Model(&models.NotificationJobRun{}).Where("id = ?", runID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationJobRunNotFound
	}
	return nil
}
