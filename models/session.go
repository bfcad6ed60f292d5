package models

import "time"

// Session is the server-side half of a signed-in browser. The cookie only
// carries a signed reference to Token.
type Session struct {
	Token     string    `gorm:"primaryKey;column:token;type:varchar(64)" json:"-"`
	UserID    uint      `gorm:"column:user_id;index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"column:expires_at;index" json:"expires_at"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(64)" json:"ip_address"`
	UserAgent string    `gorm:"column:user_agent;type:varchar(255)" json:"user_agent"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	User User `gorm:"-:migration" json:"-"`
}

func (Session) TableName() string { return "sessions" }

// ExpiredAt reports whether the session is no longer valid at now.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type PasswordResetToken struct {
	Token     string     `gorm:"primaryKey;column:token;type:varchar(64)" json:"-"`
	UserID    uint       `gorm:"column:user_id;index;not null" json:"user_id"`
	ExpiresAt time.Time  `gorm:"column:expires_at" json:"expires_at"`
	UsedAt    *time.Time `gorm:"column:used_at" json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	User User `gorm:"-:migration" json:"-"`
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }
