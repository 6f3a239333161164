package repositories

import (
	"context"

	"donatello/backend/internal/constants"
	"donatello/backend/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// IntegrityRepository runs the raw reporting queries that cross-check the
// ledger against stored balances. It talks straight to sqlx because the
// report is one aggregate query with no model behind it.
type IntegrityRepository struct {
	db *sqlx.DB
}

func NewIntegrityRepository(db *sqlx.DB) *IntegrityRepository {
	return &IntegrityRepository{db: db}
}

// BalanceReport returns every balance whose stored amount disagrees with
// its ledger. An empty slice means the books are clean.
func (r *IntegrityRepository) BalanceReport(ctx context.Context) ([]entities.BalanceDrift, error) {
	rows := []entities.BalanceDrift{}
	if err := r.db.SelectContext(ctx, &rows, constants.BalanceIntegrityReport); err != nil {
		return nil, err
	}
	return rows, nil
}
