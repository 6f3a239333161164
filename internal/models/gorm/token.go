package gorm

import (
	"time"

	"donatello/backend/internal/constants"
)

// AuthToken is the persisted record behind both email-confirmation and
// change-password tokens. Records are never deleted; expiration is soft via
// ExpiredAt.
type AuthToken struct {
	ID        string              `gorm:"column:id;primaryKey;type:uuid"`
	UserID    string              `gorm:"column:user_id;type:uuid;index"`
	Kind      constants.TokenKind `gorm:"column:kind;index"`
	Token     string              `gorm:"column:token;uniqueIndex;size:2048"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	ExpiredAt *time.Time          `gorm:"column:expired_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (AuthToken) TableName() string {
	return "auth_tokens"
}
