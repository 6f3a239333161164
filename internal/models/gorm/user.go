package gorm

import (
	"time"
)

type User struct {
	ID          string     `gorm:"column:id;primaryKey;type:uuid"`
	FirstName   *string    `gorm:"column:first_name"`
	LastName    *string    `gorm:"column:last_name"`
	Username    string     `gorm:"column:username;uniqueIndex"`
	Email       string     `gorm:"column:email;uniqueIndex"`
	PhoneNumber string     `gorm:"column:phone_number;uniqueIndex"`
	Password    string     `gorm:"column:password"`
	ActivatedAt *time.Time `gorm:"column:activated_at"`
	BalanceID   string     `gorm:"column:balance_id;type:uuid"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Balance  Balance   `gorm:"foreignKey:BalanceID"`
	Employee *Employee `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
