package gorm

import (
	"time"

	"donatello/backend/internal/constants"
)

type Charity struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid"`
	Title       string    `gorm:"column:title;size:256"`
	Description string    `gorm:"column:description;size:8192"`
	Email       string    `gorm:"column:email;uniqueIndex"`
	Phone       string    `gorm:"column:phone;uniqueIndex"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Memberships []Membership `gorm:"foreignKey:CharityID"`
}

// TableName specifies the table name for GORM
func (Charity) TableName() string {
	return "charities"
}

// Employee is created lazily the first time a user joins any charity.
type Employee struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	UserID    string    `gorm:"column:user_id;type:uuid;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	User User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// Membership links an employee to a charity and carries the role set.
type Membership struct {
	ID         string    `gorm:"column:id;primaryKey;type:uuid"`
	CharityID  string    `gorm:"column:charity_id;type:uuid;uniqueIndex:idx_membership_charity_employee"`
	EmployeeID string    `gorm:"column:employee_id;type:uuid;uniqueIndex:idx_membership_charity_employee"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	Charity  Charity          `gorm:"foreignKey:CharityID"`
	Employee Employee         `gorm:"foreignKey:EmployeeID"`
	Roles    []MembershipRole `gorm:"foreignKey:MembershipID"`
}

// TableName specifies the table name for GORM
func (Membership) TableName() string {
	return "charity_memberships"
}

// Role rows are pre-populated at startup and immutable afterwards.
type Role struct {
	ID   string                 `gorm:"column:id;primaryKey;type:uuid"`
	Name constants.EmployeeRole `gorm:"column:name;uniqueIndex"`
}

// TableName specifies the table name for GORM
func (Role) TableName() string {
	return "employee_roles"
}

type MembershipRole struct {
	ID           string    `gorm:"column:id;primaryKey;type:uuid"`
	MembershipID string    `gorm:"column:membership_id;type:uuid;uniqueIndex:idx_membership_role"`
	RoleID       string    `gorm:"column:role_id;type:uuid;uniqueIndex:idx_membership_role"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	Role Role `gorm:"foreignKey:RoleID"`
}

// TableName specifies the table name for GORM
func (MembershipRole) TableName() string {
	return "membership_roles"
}
