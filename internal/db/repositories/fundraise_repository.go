package repositories

import (
	"context"

	gormModels "donatello/backend/internal/models/gorm"

	"gorm.io/gorm"
)

type FundraiseRepository struct {
	db *gorm.DB
}

func NewFundraiseRepository(db *gorm.DB) *FundraiseRepository {
	return &FundraiseRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *FundraiseRepository) WithTx(tx *gorm.DB) *FundraiseRepository {
	return &FundraiseRepository{db: tx}
}

func (r *FundraiseRepository) Create(ctx context.Context, fundraise *gormModels.Fundraise) error {
	return r.db.WithContext(ctx).Create(fundraise).Error
}

func (r *FundraiseRepository) GetByID(ctx context.Context, id string) (*gormModels.Fundraise, error) {
	var fundraise gormModels.Fundraise
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&fundraise).Error
	if err != nil {
		return nil, err
	}
	return &fundraise, nil
}

// GetByBalanceID resolves the fundraise collecting into the given balance,
// or gorm.ErrRecordNotFound when the balance belongs to a user instead.
func (r *FundraiseRepository) GetByBalanceID(ctx context.Context, balanceID string) (*gormModels.Fundraise, error) {
	var fundraise gormModels.Fundraise
	err := r.db.WithContext(ctx).
		Where("balance_id = ?", balanceID).
		First(&fundraise).Error
	if err != nil {
		return nil, err
	}
	return &fundraise, nil
}

// ListByCharity returns one page of a charity's fundraisers plus the total.
func (r *FundraiseRepository) ListByCharity(ctx context.Context, charityID string, page, pageSize int) ([]gormModels.Fundraise, int64, error) {
	var (
		fundraisers []gormModels.Fundraise
		total       int64
	)
	q := r.db.WithContext(ctx).
		Model(&gormModels.Fundraise{}).
		Where("charity_id = ?", charityID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.
		Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&fundraisers).Error
	if err != nil {
		return nil, 0, err
	}
	return fundraisers, total, nil
}

func (r *FundraiseRepository) Update(ctx context.Context, fundraise *gormModels.Fundraise) error {
	return r.db.WithContext(ctx).Save(fundraise).Error
}

// Delete removes the fundraise and its status history.
func (r *FundraiseRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).
		Where("fundraise_id = ?", id).
		Delete(&gormModels.FundraiseStatusHistory{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&gormModels.Fundraise{}).Error
}

// CurrentStatus returns the latest applied status history entry with its
// status preloaded. A fundraise always has at least the initial entry.
func (r *FundraiseRepository) CurrentStatus(ctx context.Context, fundraiseID string) (*gormModels.FundraiseStatusHistory, error) {
	var entry gormModels.FundraiseStatusHistory
	err := r.db.WithContext(ctx).
		Preload("Status").
		Where("fundraise_id = ?", fundraiseID).
		Order("applied_at DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// AppendStatus records a transition; history is append-only.
func (r *FundraiseRepository) AppendStatus(ctx context.Context, entry *gormModels.FundraiseStatusHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// StatusHistory returns the full trail, oldest first.
func (r *FundraiseRepository) StatusHistory(ctx context.Context, fundraiseID string) ([]gormModels.FundraiseStatusHistory, error) {
	var entries []gormModels.FundraiseStatusHistory
	err := r.db.WithContext(ctx).
		Preload("Status").
		Where("fundraise_id = ?", fundraiseID).
		Order("applied_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
