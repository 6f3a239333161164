package entities

import "github.com/shopspring/decimal"

// BalanceDrift is one row of the balance integrity report: a balance whose
// stored amount no longer matches what its ledger rows add up to.
type BalanceDrift struct {
	BalanceID    string          `db:"id"`
	StoredAmount decimal.Decimal `db:"stored_amount"`
	LedgerAmount decimal.Decimal `db:"ledger_amount"`
}
