package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionModel mirrors the 'sessions' table. Each row is one redeemable
// refresh session; the raw token is never stored, only its salted hash.
type SessionModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index"`
	RefreshTokenHash string    `gorm:"type:varchar(255);not null"`
	UserAgent        string    `gorm:"type:varchar(512)"`
	IPAddress        string    `gorm:"column:ip_address;type:varchar(64)"`
	ExpiresAt        time.Time `gorm:"not null;index"`
	CreatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}
