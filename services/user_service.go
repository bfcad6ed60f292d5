package services

import (
	"context"
	"errors"
	"strings"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"
	"agency-backoffice-api/utils"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	if db == nil {
		db = config.DB
	}
	return &UserService{db: db}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Order("user_id DESC").Find(&users).Error
	return users, err
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update changes name and role.
func (s *UserService) Update(ctx context.Context, id uint, name, role string) (*models.User, error) {
	name = utils.SanitizeInput(name)
	if name == "" {
		return nil, utils.NewValidationError("name", "is required")
	}
	if !models.IsValidRole(role) {
		return nil, utils.NewValidationError("role", "must be %q or %q", models.RoleUser, models.RoleAdmin)
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{"name": name, "role": role}).Error; err != nil {
		return nil, err
	}
	user.Name, user.Role = name, role
	return user, nil
}

// Delete removes a user and, through the foreign key, their sessions.
func (s *UserService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	res := s.db.WithContext(ctx).Delete(&models.User{}, "user_id = ?", id)
	if res.Error != nil {
		return dependencyError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ChangePassword sets a new password for id and revokes their sessions.
func (s *UserService) ChangePassword(ctx context.Context, id uint, newPassword string) error {
	if ok, msg := utils.ValidatePassword(newPassword); !ok {
		return utils.NewValidationError("password", "%s", msg)
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("user_id = ?", id).Update("password", hash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Delete(&models.Session{}, "user_id = ?", id).Error
	})
}

// EnsureAdmin creates or promotes the account behind email to admin.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		if user.Role != models.RoleAdmin {
			if err := s.db.WithContext(ctx).Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
				return nil, false, err
			}
			user.Role = models.RoleAdmin
		}
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if !utils.ValidateEmail(email) {
		return nil, false, utils.NewValidationError("email", "is not a valid address")
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return nil, false, utils.NewValidationError("password", "%s", msg)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	user = models.User{Name: name, Email: email, Password: hash, Role: models.RoleAdmin}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, false, err
	}
	return &user, true, nil
}
