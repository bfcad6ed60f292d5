package services

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"time"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"
	"agency-backoffice-api/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClaimInput struct {
	PolicyID         uint
	IncidentDate     time.Time
	Type             string
	EstimatedLossKes float64
	Description      string
	Status           string
}

func (in *ClaimInput) validate() error {
	if in.PolicyID == 0 {
		return utils.NewValidationError("policy_id", "is required")
	}
	if in.IncidentDate.IsZero() {
		return utils.NewValidationError("incident_date", "is required")
	}
	if !utils.OneOf(in.Type, models.ClaimTypes) {
		return utils.NewValidationError("type", "is not a known claim type")
	}
	if in.Status == "" {
		in.Status = "Pending"
	}
	if !utils.OneOf(in.Status, models.ClaimStatuses) {
		return utils.NewValidationError("status", "is not a known claim status")
	}
	if in.EstimatedLossKes < 0 {
		return utils.NewValidationError("estimated_loss_kes", "cannot be negative")
	}
	in.Description = utils.SanitizeInput(in.Description)
	return nil
}

type ClaimService struct {
	db      *gorm.DB
	storage *FileStorage
}

func NewClaimService(db *gorm.DB, storage *FileStorage) *ClaimService {
	if db == nil {
		db = config.DB
	}
	if storage == nil {
		storage = NewFileStorage("")
	}
	return &ClaimService{db: db, storage: storage}
}

func (s *ClaimService) List(ctx context.Context) ([]models.Claim, error) {
	var claims []models.Claim
	err := s.db.WithContext(ctx).
		Preload("Policy").
		Preload("EvidenceDocuments").
		Order("created_at DESC").Order("claim_id DESC").
		Find(&claims).Error
	return claims, err
}

func (s *ClaimService) Get(ctx context.Context, id uint) (*models.Claim, error) {
	var claim models.Claim
	err := s.db.WithContext(ctx).Preload("Policy").Preload("EvidenceDocuments").
		First(&claim, "claim_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// Create stores the evidence files and the claim. Files are removed again if
// the claim cannot be saved.
func (s *ClaimService) Create(ctx context.Context, in *ClaimInput, evidence []*multipart.FileHeader) (*models.Claim, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.ensurePolicy(ctx, in.PolicyID); err != nil {
		return nil, err
	}

	docs, err := s.storeEvidence(evidence)
	if err != nil {
		return nil, err
	}

	claim := &models.Claim{
		PolicyID:         in.PolicyID,
		IncidentDate:     in.IncidentDate.UTC(),
		Type:             in.Type,
		EstimatedLossKes: in.EstimatedLossKes,
		Description:      in.Description,
		Status:           in.Status,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(claim).Error; err != nil {
			return err
		}
		return s.attach(tx, claim.ClaimID, docs)
	})
	if err != nil {
		s.discard(docs)
		return nil, err
	}
	claim.EvidenceDocuments = docs
	return claim, nil
}

// Update overwrites the claim fields and appends any new evidence.
func (s *ClaimService) Update(ctx context.Context, id uint, in *ClaimInput, evidence []*multipart.FileHeader) (*models.Claim, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	claim, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePolicy(ctx, in.PolicyID); err != nil {
		return nil, err
	}

	docs, err := s.storeEvidence(evidence)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"policy_id":          in.PolicyID,
		"incident_date":      in.IncidentDate.UTC(),
		"type":               in.Type,
		"estimated_loss_kes": in.EstimatedLossKes,
		"description":        in.Description,
		"status":             in.Status,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Claim{}).Where("claim_id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return s.attach(tx, id, docs)
	})
	if err != nil {
		s.discard(docs)
		return nil, err
	}
	return s.Get(ctx, claim.ClaimID)
}

// Delete removes a claim with its evidence rows, then the evidence files.
func (s *ClaimService) Delete(ctx context.Context, id uint) error {
	var docs []models.ClaimDocument
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("claim_id = ?", id).Find(&docs).Error; err != nil {
			return err
		}
		if err := tx.Where("claim_id = ?", id).Delete(&models.ClaimDocument{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Claim{}, "claim_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.discard(docs)
	return nil
}

func (s *ClaimService) ensurePolicy(ctx context.Context, policyID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Policy{}).Where("policy_id = ?", policyID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.NewValidationError("policy_id", "policy does not exist")
	}
	return nil
}

func (s *ClaimService) storeEvidence(files []*multipart.FileHeader) ([]models.ClaimDocument, error) {
	docs := make([]models.ClaimDocument, 0, len(files))
	for _, fh := range files {
		stored, err := s.storage.Save(fh, "claims")
		if err != nil {
			s.discard(docs)
			return nil, err
		}
		docs = append(docs, models.ClaimDocument{
			Name:       stored.Name,
			StoredPath: stored.StoredPath,
			SizeBytes:  stored.SizeBytes,
		})
	}
	return docs, nil
}

func (s *ClaimService) attach(tx *gorm.DB, claimID uint, docs []models.ClaimDocument) error {
	if len(docs) == 0 {
		return nil
	}
	for i := range docs {
		docs[i].ClaimID = claimID
	}
	return tx.Create(&docs).Error
}

func (s *ClaimService) discard(docs []models.ClaimDocument) {
	for _, d := range docs {
		if err := s.storage.Remove(d.StoredPath); err != nil {
			log.Printf("failed to remove claim evidence %s: %v", d.StoredPath, err)
		}
	}
}
