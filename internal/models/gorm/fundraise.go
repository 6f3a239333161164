package gorm

import (
	"time"

	"github.com/shopspring/decimal"

	"donatello/backend/internal/constants"
)

type Fundraise struct {
	ID          string          `gorm:"column:id;primaryKey;type:uuid"`
	CharityID   string          `gorm:"column:charity_id;type:uuid;index"`
	Title       string          `gorm:"column:title;size:256"`
	Description string          `gorm:"column:description;size:8192"`
	Goal        decimal.Decimal `gorm:"column:goal;type:decimal(12,2)"`
	EndingAt    *time.Time      `gorm:"column:ending_at"`
	// BalanceID is the collecting balance donations to this fundraise credit.
	BalanceID *string   `gorm:"column:balance_id;type:uuid;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Charity  Charity                  `gorm:"foreignKey:CharityID"`
	Statuses []FundraiseStatusHistory `gorm:"foreignKey:FundraiseID"`
}

// TableName specifies the table name for GORM
func (Fundraise) TableName() string {
	return "fundraisers"
}

// FundraiseStatus rows are pre-populated at startup and immutable afterwards.
type FundraiseStatus struct {
	ID   string                        `gorm:"column:id;primaryKey;type:uuid"`
	Name constants.FundraiseStatusName `gorm:"column:name;uniqueIndex"`
}

// TableName specifies the table name for GORM
func (FundraiseStatus) TableName() string {
	return "fundraise_statuses"
}

// FundraiseStatusHistory is append-only; the entry with the greatest
// AppliedAt is the fundraise's current status.
type FundraiseStatusHistory struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid"`
	FundraiseID string    `gorm:"column:fundraise_id;type:uuid;index"`
	StatusID    string    `gorm:"column:status_id;type:uuid"`
	AppliedAt   time.Time `gorm:"column:applied_at;index"`

	// Relationships
	Status FundraiseStatus `gorm:"foreignKey:StatusID"`
}

// TableName specifies the table name for GORM
func (FundraiseStatusHistory) TableName() string {
	return "fundraise_status_history"
}
