package repositories

import (
	"context"
	"time"

	"donatello/backend/internal/constants"
	gormModels "donatello/backend/internal/models/gorm"

	"gorm.io/gorm"
)

// TokenRepository persists auth token records. Rows are never deleted;
// a token leaves circulation by having its expired_at stamped.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *TokenRepository) WithTx(tx *gorm.DB) *TokenRepository {
	return &TokenRepository{db: tx}
}

func (r *TokenRepository) Insert(ctx context.Context, token *gormModels.AuthToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// LatestActive returns the most recently created non-expired token of the
// given kind for the user, or gorm.ErrRecordNotFound when none exists.
func (r *TokenRepository) LatestActive(ctx context.Context, userID string, kind constants.TokenKind) (*gormModels.AuthToken, error) {
	var token gormModels.AuthToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND expired_at IS NULL", userID, kind).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// ExpireAllActive stamps every live token of the given kind for the user.
func (r *TokenRepository) ExpireAllActive(ctx context.Context, userID string, kind constants.TokenKind, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&gormModels.AuthToken{}).
		Where("user_id = ? AND kind = ? AND expired_at IS NULL", userID, kind).
		Update("expired_at", at).Error
}

func (r *TokenRepository) FindByToken(ctx context.Context, kind constants.TokenKind, tokenString string) (*gormModels.AuthToken, error) {
	var token gormModels.AuthToken
	err := r.db.WithContext(ctx).
		Where("kind = ? AND token = ?", kind, tokenString).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// ExpireByID consumes a single token. The expired_at IS NULL guard makes the
// operation idempotent-safe: a second caller sees zero rows affected.
func (r *TokenRepository) ExpireByID(ctx context.Context, id string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.AuthToken{}).
		Where("id = ? AND expired_at IS NULL", id).
		Update("expired_at", at)
	return res.RowsAffected, res.Error
}
