package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsValidRole reports whether role is one of the two recognised roles.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

type User struct {
	UserID    uint      `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name      string    `gorm:"column:name;type:varchar(191)" json:"name"`
	Email     string    `gorm:"column:email;type:varchar(191);uniqueIndex" json:"email"`
	Password  string    `gorm:"column:password" json:"-"`
	Role      string    `gorm:"column:role;type:varchar(16);not null;default:'user'" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Sessions    []Session            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ResetTokens []PasswordResetToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
