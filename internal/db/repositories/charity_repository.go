package repositories

import (
	"context"
	"strings"

	gormModels "donatello/backend/internal/models/gorm"

	"gorm.io/gorm"
)

type CharityRepository struct {
	db *gorm.DB
}

func NewCharityRepository(db *gorm.DB) *CharityRepository {
	return &CharityRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *CharityRepository) WithTx(tx *gorm.DB) *CharityRepository {
	return &CharityRepository{db: tx}
}

func (r *CharityRepository) Create(ctx context.Context, charity *gormModels.Charity) error {
	return r.db.WithContext(ctx).Create(charity).Error
}

func (r *CharityRepository) GetByID(ctx context.Context, id string) (*gormModels.Charity, error) {
	var charity gormModels.Charity
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&charity).Error
	if err != nil {
		return nil, err
	}
	return &charity, nil
}

// List returns one page of charities plus the total row count. A non-empty
// title filter narrows the result with a case-insensitive substring match.
func (r *CharityRepository) List(ctx context.Context, titleFilter string, page, pageSize int) ([]gormModels.Charity, int64, error) {
	var (
		charities []gormModels.Charity
		total     int64
	)
	q := r.db.WithContext(ctx).Model(&gormModels.Charity{})
	if titleFilter != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(titleFilter)+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.
		Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&charities).Error
	if err != nil {
		return nil, 0, err
	}
	return charities, total, nil
}

func (r *CharityRepository) Update(ctx context.Context, charity *gormModels.Charity) error {
	return r.db.WithContext(ctx).Save(charity).Error
}

func (r *CharityRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&gormModels.Charity{}).Error
}
