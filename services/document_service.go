package services

import (
	"context"
	"errors"
	"log"
	"mime/multipart"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"
	"agency-backoffice-api/utils"

	"gorm.io/gorm"
)

type DocumentService struct {
	db      *gorm.DB
	storage *FileStorage
}

func NewDocumentService(db *gorm.DB, storage *FileStorage) *DocumentService {
	if db == nil {
		db = config.DB
	}
	if storage == nil {
		storage = NewFileStorage("")
	}
	return &DocumentService{db: db, storage: storage}
}

func (s *DocumentService) List(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	err := s.db.WithContext(ctx).Order("created_at DESC").Order("document_id DESC").Find(&docs).Error
	return docs, err
}

func (s *DocumentService) Get(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "document_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// Upload saves the file and records it for clientName.
func (s *DocumentService) Upload(ctx context.Context, clientName, docType string, fh *multipart.FileHeader, uploadedBy uint) (*models.Document, error) {
	clientName = utils.SanitizeInput(clientName)
	if clientName == "" || docType == "" || fh == nil {
		return nil, utils.NewValidationError("", "All fields are required.")
	}
	if _, ok := models.DocumentTypes[docType]; !ok {
		return nil, utils.NewValidationError("document_type", "Invalid document type.")
	}

	stored, err := s.storage.Save(fh, "documents")
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		ClientName: clientName,
		Name:       stored.Name,
		Type:       docType,
		StoredPath: stored.StoredPath,
		MimeType:   stored.MimeType,
		SizeBytes:  stored.SizeBytes,
		UploadedBy: uploadedBy,
	}
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		// Delete uploaded file if database save fails
		s.storage.Remove(stored.StoredPath)
		return nil, err
	}
	return doc, nil
}

// Path returns the on-disk location of a document's file.
func (s *DocumentService) Path(doc *models.Document) (string, error) {
	return s.storage.Resolve(doc.StoredPath)
}

func (s *DocumentService) Delete(ctx context.Context, id uint) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Document{}, "document_id = ?", id).Error; err != nil {
		return err
	}
	if err := s.storage.Remove(doc.StoredPath); err != nil {
		log.Printf("failed to remove document file %s: %v", doc.StoredPath, err)
	}
	return nil
}
