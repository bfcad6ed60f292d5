package services

import (
	"context"
	"time"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"

	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalLeads          int64   `json:"totalLeads"`
	ActivePolicies      int64   `json:"activePolicies"`
	MonthlyCommission   float64 `json:"monthlyCommission"`
	ConversionRate      float64 `json:"conversionRate"`
	UnreadNotifications int64   `json:"unreadNotifications"`
}

type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	if db == nil {
		db = config.DB
	}
	return &DashboardService{db: db, now: time.Now}
}

// Stats computes the headline counters. Paid commissions are summed from the
// first day of the current UTC month.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	if err := db.Model(&models.Lead{}).Count(&stats.TotalLeads).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Policy{}).Where("status = ?", models.PolicyStatusActive).Count(&stats.ActivePolicies).Error; err != nil {
		return nil, err
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	var sum struct{ Total float64 }
	if err := db.Model(&models.Commission{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("status = ? AND commission_date >= ?", models.CommissionStatusPaid, monthStart).
		Scan(&sum).Error; err != nil {
		return nil, err
	}
	stats.MonthlyCommission = sum.Total

	var converted int64
	if err := db.Model(&models.Lead{}).Where("status = ?", models.LeadStatusConverted).Count(&converted).Error; err != nil {
		return nil, err
	}
	if stats.TotalLeads > 0 {
		stats.ConversionRate = float64(converted) / float64(stats.TotalLeads) * 100
	}

	if err := db.Model(&models.Notification{}).Where("is_read = ?", false).Count(&stats.UnreadNotifications).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
