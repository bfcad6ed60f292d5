package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"
	"agency-backoffice-api/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PolicyInput struct {
	PolicyNumber              string    `json:"policy_number" binding:"required"`
	ClientName                string    `json:"client_name" binding:"required"`
	ClientPhone               *string   `json:"client_phone"`
	Insurer                   string    `json:"insurer" binding:"required"`
	VehicleRegistrationNumber *string   `json:"vehicle_registration_number"`
	Type                      string    `json:"type" binding:"required"`
	Status                    string    `json:"status" binding:"required"`
	Premium                   float64   `json:"premium"`
	SumInsured                float64   `json:"sum_insured"`
	StartDate                 time.Time `json:"start_date" binding:"required"`
	ExpiryDate                time.Time `json:"expiry_date" binding:"required"`
}

func (in *PolicyInput) validate() error {
	in.PolicyNumber = utils.SanitizeInput(in.PolicyNumber)
	in.ClientName = utils.SanitizeInput(in.ClientName)
	in.Insurer = utils.SanitizeInput(in.Insurer)
	if in.PolicyNumber == "" {
		return utils.NewValidationError("policy_number", "is required")
	}
	if !utils.OneOf(in.Status, models.PolicyStatuses) {
		return utils.NewValidationError("status", "must be one of %s", strings.Join(models.PolicyStatuses, ", "))
	}
	if !utils.OneOf(in.Type, models.PolicyTypes) {
		return utils.NewValidationError("type", "is not a known policy type")
	}
	if in.Premium < 0 || in.SumInsured < 0 {
		return utils.NewValidationError("premium", "amounts cannot be negative")
	}
	if !in.ExpiryDate.After(in.StartDate) {
		return utils.NewValidationError("expiry_date", "must be after the start date")
	}
	return nil
}

func (in *PolicyInput) apply(p *models.Policy) {
	p.PolicyNumber = in.PolicyNumber
	p.ClientName = in.ClientName
	p.ClientPhone = in.ClientPhone
	p.Insurer = in.Insurer
	p.VehicleRegistrationNumber = in.VehicleRegistrationNumber
	p.Type = in.Type
	p.Status = in.Status
	p.Premium = in.Premium
	p.SumInsured = in.SumInsured
	p.StartDate = in.StartDate.UTC()
	p.ExpiryDate = in.ExpiryDate.UTC()
}

type PolicyService struct {
	db *gorm.DB
}

func NewPolicyService(db *gorm.DB) *PolicyService {
	if db == nil {
		db = config.DB
	}
	return &PolicyService{db: db}
}

// List returns policies, optionally filtered by status, soonest expiry first.
func (s *PolicyService) List(ctx context.Context, status string) ([]models.Policy, error) {
	q := s.db.WithContext(ctx).Model(&models.Policy{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var policies []models.Policy
	err := q.Order("expiry_date ASC").Order("policy_id ASC").Find(&policies).Error
	return policies, err
}

func (s *PolicyService) Get(ctx context.Context, id uint) (*models.Policy, error) {
	var p models.Policy
	if err := s.db.WithContext(ctx).First(&p, "policy_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *PolicyService) FindByNumber(ctx context.Context, number string) (*models.Policy, error) {
	number = utils.SanitizeInput(number)
	if number == "" {
		return nil, utils.NewValidationError("number", "Policy number is required")
	}
	var p models.Policy
	if err := s.db.WithContext(ctx).Where("policy_number = ?", number).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *PolicyService) Create(ctx context.Context, in *PolicyInput) (*models.Policy, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var p models.Policy
	in.apply(&p)
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPolicyNumberTaken
		}
		return nil, err
	}
	return &p, nil
}

func (s *PolicyService) Update(ctx context.Context, id uint, in *PolicyInput) (*models.Policy, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPolicyNumberTaken
		}
		return nil, err
	}
	return p, nil
}

// Delete removes a policy. Claims restrict the delete; the foreign key is the
// authority, the count only gives a clean error on engines without error
// translation.
func (s *PolicyService) Delete(ctx context.Context, id uint) error {
	var claims int64
	if err := s.db.WithContext(ctx).Model(&models.Claim{}).Where("policy_id = ?", id).Count(&claims).Error; err != nil {
		return err
	}
	if claims > 0 {
		return ErrPolicyHasClaims
	}

	res := s.db.WithContext(ctx).Delete(&models.Policy{}, "policy_id = ?", id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return ErrPolicyHasClaims
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
