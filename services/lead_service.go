package services

import (
	"context"
	"errors"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"
	"agency-backoffice-api/utils"

	"gorm.io/gorm"
)

type LeadInput struct {
	FullName    string  `json:"full_name" binding:"required"`
	PhoneNumber string  `json:"phone_number" binding:"required"`
	Email       *string `json:"email"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority" binding:"required"`
	Source      string  `json:"source" binding:"required"`
	Notes       *string `json:"notes"`
}

func (in *LeadInput) validate() error {
	in.FullName = utils.SanitizeInput(in.FullName)
	in.PhoneNumber = utils.SanitizeInput(in.PhoneNumber)
	if in.FullName == "" {
		return utils.NewValidationError("full_name", "is required")
	}
	if in.Status == "" {
		in.Status = models.LeadStatusNew
	}
	if !utils.OneOf(in.Status, models.LeadStatuses) {
		return utils.NewValidationError("status", "is not a known lead status")
	}
	if !utils.OneOf(in.Priority, models.LeadPriorities) {
		return utils.NewValidationError("priority", "must be low or high")
	}
	if !utils.OneOf(in.Source, models.LeadSources) {
		return utils.NewValidationError("source", "is not a known lead source")
	}
	if in.Email != nil && *in.Email != "" && !utils.ValidateEmail(*in.Email) {
		return utils.NewValidationError("email", "is not a valid address")
	}
	return nil
}

type LeadService struct {
	db *gorm.DB
}

func NewLeadService(db *gorm.DB) *LeadService {
	if db == nil {
		db = config.DB
	}
	return &LeadService{db: db}
}

func (s *LeadService) List(ctx context.Context) ([]models.Lead, error) {
	var leads []models.Lead
	err := s.db.WithContext(ctx).Order("created_at DESC").Order("lead_id DESC").Find(&leads).Error
	return leads, err
}

func (s *LeadService) Create(ctx context.Context, in *LeadInput) (*models.Lead, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	lead := &models.Lead{
		FullName:    in.FullName,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		Status:      in.Status,
		Priority:    in.Priority,
		Source:      in.Source,
		Notes:       in.Notes,
	}
	if err := s.db.WithContext(ctx).Create(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *LeadService) Update(ctx context.Context, id uint, in *LeadInput) (*models.Lead, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	lead, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	lead.FullName = in.FullName
	lead.PhoneNumber = in.PhoneNumber
	lead.Email = in.Email
	lead.Status = in.Status
	lead.Priority = in.Priority
	lead.Source = in.Source
	lead.Notes = in.Notes
	if err := s.db.WithContext(ctx).Save(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

// Convert marks a lead as converted.
func (s *LeadService) Convert(ctx context.Context, id uint) (*models.Lead, error) {
	lead, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(lead).Update("status", models.LeadStatusConverted).Error; err != nil {
		return nil, err
	}
	lead.Status = models.LeadStatusConverted
	return lead, nil
}

func (s *LeadService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Lead{}, "lead_id = ?", id)
	if res.Error != nil {
		return dependencyError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *LeadService) get(ctx context.Context, id uint) (*models.Lead, error) {
	var lead models.Lead
	if err := s.db.WithContext(ctx).First(&lead, "lead_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lead, nil
}
