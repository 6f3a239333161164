package gorm

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance amounts are constrained non-negative both here and by the
// application-level pre-check in the donation service.
type Balance struct {
	ID        string          `gorm:"column:id;primaryKey;type:uuid"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(12,2);check:amount >= 0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Balance) TableName() string {
	return "balances"
}

// Refill is an append-only one-sided credit to the owning balance.
type Refill struct {
	ID        string          `gorm:"column:id;primaryKey;type:uuid"`
	BalanceID string          `gorm:"column:balance_id;type:uuid;index"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(12,2)"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	Balance Balance `gorm:"foreignKey:BalanceID"`
}

// TableName specifies the table name for GORM
func (Refill) TableName() string {
	return "refills"
}

// Donation pairs a debit of the sender balance with a credit of the
// recipient balance in one transaction.
type Donation struct {
	ID          string          `gorm:"column:id;primaryKey;type:uuid"`
	SenderID    string          `gorm:"column:sender_id;type:uuid;index"`
	RecipientID string          `gorm:"column:recipient_id;type:uuid;index"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(12,2)"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	Sender    Balance `gorm:"foreignKey:SenderID"`
	Recipient Balance `gorm:"foreignKey:RecipientID"`
}

// TableName specifies the table name for GORM
func (Donation) TableName() string {
	return "donations"
}
