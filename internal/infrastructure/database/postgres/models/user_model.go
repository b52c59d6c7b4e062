package models

import (
	"time"

	"github.com/google/uuid"
)

type UserModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username       string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_username"`
	Email          string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	PasswordHashed string     `gorm:"type:varchar(255);not null"`
	FullName       string     `gorm:"type:varchar(255);not null"`
	PhoneNumber    *string    `gorm:"type:varchar(20)"`
	Role           string     `gorm:"type:varchar(50);not null;default:'dispatcher';index"`
	IsActive       bool       `gorm:"default:true;not null"`
	LastLoginAt    *time.Time `gorm:"type:timestamptz"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// RefreshTokenModel stores the SHA-256 hex digest of a refresh token, never
// the token itself.
type RefreshTokenModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	TokenHash string     `gorm:"type:char(64);not null;uniqueIndex:idx_refresh_tokens_hash"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	Revoked   bool       `gorm:"default:false;index"`
	RevokedAt *time.Time `gorm:"type:timestamptz"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
