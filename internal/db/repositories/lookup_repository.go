package repositories

import (
	"context"

	"donatello/backend/internal/constants"
	gormModels "donatello/backend/internal/models/gorm"

	"gorm.io/gorm"
)

// LookupRepository reads the role and fundraise status reference tables.
// Both are seeded at startup and immutable afterwards, which is what makes
// the cache layer on top of this repository safe.
type LookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

func (r *LookupRepository) GetRoleByName(ctx context.Context, name constants.EmployeeRole) (*gormModels.Role, error) {
	var role gormModels.Role
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *LookupRepository) GetStatusByName(ctx context.Context, name constants.FundraiseStatusName) (*gormModels.FundraiseStatus, error) {
	var status gormModels.FundraiseStatus
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// EnsureRole seeds a role row if missing. Idempotent across restarts.
func (r *LookupRepository) EnsureRole(ctx context.Context, name constants.EmployeeRole) error {
	role := gormModels.Role{Name: name}
	return r.db.WithContext(ctx).
		Where("name = ?", name).
		FirstOrCreate(&role).Error
}

// EnsureStatus seeds a fundraise status row if missing.
func (r *LookupRepository) EnsureStatus(ctx context.Context, name constants.FundraiseStatusName) error {
	status := gormModels.FundraiseStatus{Name: name}
	return r.db.WithContext(ctx).
		Where("name = ?", name).
		FirstOrCreate(&status).Error
}
