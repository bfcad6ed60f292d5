package services

import (
	"context"
	"errors"
	"time"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"
	"agency-backoffice-api/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommissionInput struct {
	PolicyID       uint      `json:"policy_id"`
	Amount         float64   `json:"amount"`
	Status         string    `json:"status" binding:"required"`
	CommissionDate time.Time `json:"commission_date" binding:"required"`
}

func (in *CommissionInput) validate(requirePolicy bool) error {
	if requirePolicy && in.PolicyID == 0 {
		return utils.NewValidationError("policy_id", "is required")
	}
	if in.Amount <= 0 {
		return utils.NewValidationError("amount", "Invalid commission amount")
	}
	if !utils.OneOf(in.Status, []string{models.CommissionStatusPaid, models.CommissionStatusPending}) {
		return utils.NewValidationError("status", "must be Paid or Pending")
	}
	if in.CommissionDate.IsZero() {
		return utils.NewValidationError("commission_date", "is required")
	}
	return nil
}

type CommissionService struct {
	db *gorm.DB
}

func NewCommissionService(db *gorm.DB) *CommissionService {
	if db == nil {
		db = config.DB
	}
	return &CommissionService{db: db}
}

// List returns commissions with their policy, latest commission date first.
func (s *CommissionService) List(ctx context.Context) ([]models.Commission, error) {
	var out []models.Commission
	err := s.db.WithContext(ctx).Preload("Policy").
		Order("commission_date DESC").Order("commission_id DESC").
		Find(&out).Error
	return out, err
}

func (s *CommissionService) Create(ctx context.Context, in *CommissionInput) (*models.Commission, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Policy{}).Where("policy_id = ?", in.PolicyID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, utils.NewValidationError("policy_id", "policy does not exist")
	}
	cm := &models.Commission{
		PolicyID:       in.PolicyID,
		Amount:         in.Amount,
		Status:         in.Status,
		CommissionDate: in.CommissionDate.UTC(),
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(cm).Error; err != nil {
		return nil, err
	}
	return cm, nil
}

// Update changes amount, status and date; the policy stays fixed.
func (s *CommissionService) Update(ctx context.Context, id uint, in *CommissionInput) (*models.Commission, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	var cm models.Commission
	if err := s.db.WithContext(ctx).First(&cm, "commission_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	updates := map[string]interface{}{
		"amount":          in.Amount,
		"status":          in.Status,
		"commission_date": in.CommissionDate.UTC(),
	}
	if err := s.db.WithContext(ctx).Model(&cm).Updates(updates).Error; err != nil {
		return nil, err
	}
	cm.Amount, cm.Status, cm.CommissionDate = in.Amount, in.Status, in.CommissionDate.UTC()
	return &cm, nil
}

func (s *CommissionService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Commission{}, "commission_id = ?", id)
	if res.Error != nil {
		return dependencyError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
