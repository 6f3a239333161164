package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	gormModels "donatello/backend/internal/models/gorm"
)

// InitPostgresORM connects the GORM handle every repository is built on.
func InitPostgresORM(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return conn, nil
}

// AutoMigrate creates or updates the schema for every persisted model.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&gormModels.Balance{},
		&gormModels.User{},
		&gormModels.AuthToken{},
		&gormModels.Charity{},
		&gormModels.Employee{},
		&gormModels.Membership{},
		&gormModels.Role{},
		&gormModels.MembershipRole{},
		&gormModels.Fundraise{},
		&gormModels.FundraiseStatus{},
		&gormModels.FundraiseStatusHistory{},
		&gormModels.Refill{},
		&gormModels.Donation{},
	)
}
