package repositories

import (
	"context"

	gormModels "donatello/backend/internal/models/gorm"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BalanceRepository covers balances and their ledger rows (refills and
// donations). Amount mutations go through guarded UPDATEs rather than
// read-modify-write so concurrent settlements cannot lose increments.
type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *BalanceRepository) WithTx(tx *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: tx}
}

func (r *BalanceRepository) Create(ctx context.Context) (*gormModels.Balance, error) {
	balance := gormModels.Balance{Amount: decimal.Zero}
	if err := r.db.WithContext(ctx).Create(&balance).Error; err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *BalanceRepository) GetByID(ctx context.Context, id string) (*gormModels.Balance, error) {
	var balance gormModels.Balance
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// Credit adds to a balance in place.
func (r *BalanceRepository) Credit(ctx context.Context, balanceID string, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&gormModels.Balance{}).
		Where("id = ?", balanceID).
		Update("amount", gorm.Expr("amount + ?", amount)).Error
}

// Debit subtracts from a balance only when it covers the amount; zero rows
// affected means insufficient funds.
func (r *BalanceRepository) Debit(ctx context.Context, balanceID string, amount decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Balance{}).
		Where("id = ? AND amount >= ?", balanceID, amount).
		Update("amount", gorm.Expr("amount - ?", amount))
	return res.RowsAffected, res.Error
}

func (r *BalanceRepository) CreateRefill(ctx context.Context, refill *gormModels.Refill) error {
	return r.db.WithContext(ctx).Create(refill).Error
}

func (r *BalanceRepository) CreateDonation(ctx context.Context, donation *gormModels.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

// ListRefills returns one page of a balance's refills, newest first.
func (r *BalanceRepository) ListRefills(ctx context.Context, balanceID string, page, pageSize int) ([]gormModels.Refill, int64, error) {
	var (
		refills []gormModels.Refill
		total   int64
	)
	q := r.db.WithContext(ctx).
		Model(&gormModels.Refill{}).
		Where("balance_id = ?", balanceID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&refills).Error
	if err != nil {
		return nil, 0, err
	}
	return refills, total, nil
}

// ListDonations returns one page of donations touching a balance in either
// direction, newest first.
func (r *BalanceRepository) ListDonations(ctx context.Context, balanceID string, page, pageSize int) ([]gormModels.Donation, int64, error) {
	var (
		donations []gormModels.Donation
		total     int64
	)
	q := r.db.WithContext(ctx).
		Model(&gormModels.Donation{}).
		Where("sender_id = ? OR recipient_id = ?", balanceID, balanceID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&donations).Error
	if err != nil {
		return nil, 0, err
	}
	return donations, total, nil
}
