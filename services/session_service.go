package services

import (
	"context"
	"errors"
	"log"
	"time"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionClaims is the signed payload of the session cookie. Role is a hint
// for clients; authorization always reloads the user.
type SessionClaims struct {
	SessionID string `json:"sid"`
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type SessionService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionService(db *gorm.DB, secret string, ttl time.Duration) *SessionService {
	if db == nil {
		db = config.DB
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SessionService{db: db, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// NewDefaultSessionService reads secret and lifetime from config.Current.
func NewDefaultSessionService() *SessionService {
	return NewSessionService(config.DB, config.Current.SessionSecret, config.Current.SessionTTL)
}

func (s *SessionService) TTL() time.Duration { return s.ttl }

// Create persists a session for user and returns the signed cookie value.
func (s *SessionService) Create(ctx context.Context, user *models.User, ip, userAgent string) (string, *models.Session, error) {
	now := s.now().UTC()
	sess := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.UserID,
		ExpiresAt: now.Add(s.ttl),
		IPAddress: ip,
		UserAgent: truncate(userAgent, 255),
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(sess).Error; err != nil {
		return "", nil, err
	}

	claims := SessionClaims{
		SessionID: sess.Token,
		UserID:    user.UserID,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, sess, nil
}

func (s *SessionService) parse(signed string, validate bool) (*SessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if !validate {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	token, err := jwt.ParseWithClaims(signed, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrInvalidSessionToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidSessionToken
	}
	return claims, nil
}

// Resolve validates the cookie value against the session store and returns the
// live session with its user.
func (s *SessionService) Resolve(ctx context.Context, signed string) (*models.Session, error) {
	if signed == "" {
		return nil, ErrSessionNotFound
	}
	claims, err := s.parse(signed, true)
	if err != nil {
		return nil, err
	}

	var sess models.Session
	err = s.db.WithContext(ctx).Preload("User").
		Where("token = ? AND user_id = ?", claims.SessionID, claims.UserID).
		First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if sess.ExpiredAt(s.now()) {
		if err := s.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", sess.Token).Error; err != nil {
			log.Printf("failed to delete expired session: %v", err)
		}
		return nil, ErrSessionExpired
	}
	if sess.User.UserID == 0 {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Revoke deletes the session behind a cookie value, expired or not.
func (s *SessionService) Revoke(ctx context.Context, signed string) error {
	claims, err := s.parse(signed, false)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", claims.SessionID).Error
}

// PurgeExpired removes sessions past their expiry.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now().UTC()).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
