package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"
	"agency-backoffice-api/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const passwordResetTTL = time.Hour

type AuthService struct {
	db     *gorm.DB
	mailer config.Mailer
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, mailer config.Mailer) *AuthService {
	if db == nil {
		db = config.DB
	}
	return &AuthService{db: db, mailer: mailer, now: time.Now}
}

// SignUp registers a regular user. Roles are only granted by admins.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*models.User, error) {
	name = utils.SanitizeInput(name)
	email = strings.ToLower(utils.SanitizeInput(email))
	if name == "" {
		return nil, utils.NewValidationError("name", "is required")
	}
	if !utils.ValidateEmail(email) {
		return nil, utils.NewValidationError("email", "is not a valid address")
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return nil, utils.NewValidationError("password", "%s", msg)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: email, Password: hash, Role: models.RoleUser}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials and returns the user.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(utils.SanitizeInput(email))
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// RequestPasswordReset e-mails a one-hour reset link. Unknown addresses are
// accepted silently.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email, baseURL string) error {
	email = strings.ToLower(utils.SanitizeInput(email))
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("password reset requested for unknown email %q", email)
			return nil
		}
		return err
	}

	token := &models.PasswordResetToken{
		Token:     uuid.NewString(),
		UserID:    user.UserID,
		ExpiresAt: s.now().UTC().Add(passwordResetTTL),
	}
	if err := s.db.WithContext(ctx).Omit("User").Create(token).Error; err != nil {
		return err
	}

	link := ResetLink(baseURL, token.Token)
	if s.mailer == nil {
		return config.ErrMailerNotConfigured
	}
	if err := s.mailer.Send([]string{user.Email}, "Reset your password", BuildPasswordResetHTML(user.Name, link)); err != nil {
		return fmt.Errorf("could not send email: %w", err)
	}
	return nil
}

// ResetLink builds the front-end URL carrying the reset token.
func ResetLink(baseURL, token string) string {
	base := strings.TrimSpace(baseURL)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + "forgot-password/reset?token=" + token
}

// ResetPassword consumes a reset token, sets the new password and signs the
// user out everywhere.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if ok, msg := utils.ValidatePassword(newPassword); !ok {
		return utils.NewValidationError("password", "%s", msg)
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	now := s.now().UTC()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rt models.PasswordResetToken
		if err := tx.Where("token = ? AND used_at IS NULL", token).First(&rt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidResetToken
			}
			return err
		}
		if !now.Before(rt.ExpiresAt) {
			return ErrInvalidResetToken
		}
		if err := tx.Model(&models.User{}).Where("user_id = ?", rt.UserID).Update("password", hash).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PasswordResetToken{}).Where("token = ?", rt.Token).Update("used_at", now).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Session{}, "user_id = ?", rt.UserID).Error
	})
}

// PurgeResetTokens drops reset tokens that were used or have expired.
func (s *AuthService) PurgeResetTokens(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("used_at IS NOT NULL OR expires_at <= ?", s.now().UTC()).
		Delete(&models.PasswordResetToken{})
	return res.RowsAffected, res.Error
}
