package repositories

import (
	"context"
	"time"

	gormModels "donatello/backend/internal/models/gorm"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *gormModels.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID retrieves a user with its balance preloaded.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).
		Preload("Balance").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).
		Preload("Balance").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns one page of users plus the total row count.
func (r *UserRepository) List(ctx context.Context, page, pageSize int) ([]gormModels.User, int64, error) {
	var (
		users []gormModels.User
		total int64
	)
	if err := r.db.WithContext(ctx).Model(&gormModels.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, user *gormModels.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// MarkActivated stamps activated_at once; returns the number of rows that
// actually flipped so callers can detect double activation.
func (r *UserRepository) MarkActivated(ctx context.Context, userID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ? AND activated_at IS NULL", userID).
		Update("activated_at", at)
	return res.RowsAffected, res.Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ?", userID).
		Update("password", passwordHash).Error
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&gormModels.User{}).Error
}
