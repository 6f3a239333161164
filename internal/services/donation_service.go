package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"donatello/backend/internal/common"
	"donatello/backend/internal/constants"
	"donatello/backend/internal/db/repositories"
	"donatello/backend/internal/metrics"
	"donatello/backend/internal/models/dtos"
	"donatello/backend/internal/models/entities"
	gormModels "donatello/backend/internal/models/gorm"
)

// DonationService settles donations and refills against the balance ledger.
// A donation debits the sender and credits the recipient in one transaction;
// the debit is a guarded UPDATE, so overdrafts are impossible even under
// concurrent settlement.
type DonationService struct {
	db          *gorm.DB
	users       *repositories.UserRepository
	balances    *repositories.BalanceRepository
	fundraisers *repositories.FundraiseRepository
	integrity   *repositories.IntegrityRepository
	clock       common.Clock
	metrics     *metrics.MetricsRegistry
}

func NewDonationService(
	db *gorm.DB,
	users *repositories.UserRepository,
	balances *repositories.BalanceRepository,
	fundraisers *repositories.FundraiseRepository,
	integrity *repositories.IntegrityRepository,
	clock common.Clock,
	metricsReg *metrics.MetricsRegistry,
) *DonationService {
	return &DonationService{
		db:          db,
		users:       users,
		balances:    balances,
		fundraisers: fundraisers,
		integrity:   integrity,
		clock:       clock,
		metrics:     metricsReg,
	}
}

// Donate moves funds from the caller's balance to the recipient balance.
// When the recipient balance collects for a fundraise, the fundraise must be
// in a donatable status; the check runs inside the settlement transaction so
// a concurrent status change cannot slip a donation past it.
func (s *DonationService) Donate(ctx context.Context, callerID string, req *dtos.DonationRequest) (*dtos.DonationResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, common.NewServiceError(common.ErrInvalidInput, constants.MsgAmountNotPositive)
	}

	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, translateDBError(err, "User with id: '"+callerID+"' not found")
	}
	if caller.BalanceID == req.RecipientBalanceID {
		return nil, common.NewServiceError(common.ErrInvalidInput,
			"Cannot donate to your own balance")
	}

	var donation gormModels.Donation
	err = txWithRetry(ctx, s.db, func(tx *gorm.DB) error {
		balances := s.balances.WithTx(tx)
		fundraisers := s.fundraisers.WithTx(tx)

		if _, err := balances.GetByID(ctx, req.RecipientBalanceID); err != nil {
			return translateDBError(err, "Balance with id: '"+req.RecipientBalanceID+"' not found")
		}

		fundraise, err := fundraisers.GetByBalanceID(ctx, req.RecipientBalanceID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return translateDBError(err, "")
		}
		if fundraise != nil {
			current, err := fundraisers.CurrentStatus(ctx, fundraise.ID)
			if err != nil {
				return translateDBError(err, "")
			}
			if !constants.IsDonatable(current.Status.Name) {
				return common.NewServiceError(common.ErrNotDonatable,
					fmt.Sprintf(constants.MsgNotDonatableFmt, fundraise.ID, current.Status.Name))
			}
		}

		debited, err := balances.Debit(ctx, caller.BalanceID, req.Amount)
		if err != nil {
			return translateDBError(err, "")
		}
		if debited == 0 {
			return common.NewServiceError(common.ErrInsufficientFunds, constants.MsgInsufficientFunds)
		}
		if err := balances.Credit(ctx, req.RecipientBalanceID, req.Amount); err != nil {
			return translateDBError(err, "")
		}

		donation = gormModels.Donation{
			SenderID:    caller.BalanceID,
			RecipientID: req.RecipientBalanceID,
			Amount:      req.Amount,
			CreatedAt:   s.clock.Now(),
		}
		return translateDBError(balances.CreateDonation(ctx, &donation), "")
	})
	if err != nil {
		return nil, err
	}

	s.metrics.DonationSettled()
	return &dtos.DonationResponse{
		ID:          donation.ID,
		SenderID:    donation.SenderID,
		RecipientID: donation.RecipientID,
		Amount:      donation.Amount,
		CreatedAt:   donation.CreatedAt,
	}, nil
}

// Refill credits the caller's own balance and records the ledger row.
func (s *DonationService) Refill(ctx context.Context, callerID string, req *dtos.RefillRequest) (*dtos.RefillResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, common.NewServiceError(common.ErrInvalidInput, constants.MsgAmountNotPositive)
	}

	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, translateDBError(err, "User with id: '"+callerID+"' not found")
	}

	var refill gormModels.Refill
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balances := s.balances.WithTx(tx)
		if err := balances.Credit(ctx, caller.BalanceID, req.Amount); err != nil {
			return translateDBError(err, "")
		}
		refill = gormModels.Refill{
			BalanceID: caller.BalanceID,
			Amount:    req.Amount,
			CreatedAt: s.clock.Now(),
		}
		return translateDBError(balances.CreateRefill(ctx, &refill), "")
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RefillRecorded()
	return &dtos.RefillResponse{
		ID:        refill.ID,
		BalanceID: refill.BalanceID,
		Amount:    refill.Amount,
		CreatedAt: refill.CreatedAt,
	}, nil
}

// GetBalance returns the caller's current balance.
func (s *DonationService) GetBalance(ctx context.Context, callerID string) (*dtos.BalanceResponse, error) {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, translateDBError(err, "User with id: '"+callerID+"' not found")
	}
	balance, err := s.balances.GetByID(ctx, caller.BalanceID)
	if err != nil {
		return nil, translateDBError(err, "")
	}
	return &dtos.BalanceResponse{ID: balance.ID, Amount: balance.Amount}, nil
}

// ListRefills pages through the caller's refill history, newest first.
func (s *DonationService) ListRefills(ctx context.Context, callerID string, page, pageSize int) (*dtos.Page[dtos.RefillResponse], error) {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, translateDBError(err, "User with id: '"+callerID+"' not found")
	}
	refills, total, err := s.balances.ListRefills(ctx, caller.BalanceID, page, pageSize)
	if err != nil {
		return nil, translateDBError(err, "")
	}
	items := make([]dtos.RefillResponse, 0, len(refills))
	for _, r := range refills {
		items = append(items, dtos.RefillResponse{
			ID:        r.ID,
			BalanceID: r.BalanceID,
			Amount:    r.Amount,
			CreatedAt: r.CreatedAt,
		})
	}
	return &dtos.Page[dtos.RefillResponse]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// ListDonations pages through donations touching the caller's balance in
// either direction, newest first.
func (s *DonationService) ListDonations(ctx context.Context, callerID string, page, pageSize int) (*dtos.Page[dtos.DonationResponse], error) {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, translateDBError(err, "User with id: '"+callerID+"' not found")
	}
	donations, total, err := s.balances.ListDonations(ctx, caller.BalanceID, page, pageSize)
	if err != nil {
		return nil, translateDBError(err, "")
	}
	items := make([]dtos.DonationResponse, 0, len(donations))
	for _, d := range donations {
		items = append(items, dtos.DonationResponse{
			ID:          d.ID,
			SenderID:    d.SenderID,
			RecipientID: d.RecipientID,
			Amount:      d.Amount,
			CreatedAt:   d.CreatedAt,
		})
	}
	return &dtos.Page[dtos.DonationResponse]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// BalanceIntegrityReport cross-checks every stored balance against its
// ledger. Exposed on the ops surface; an empty report means clean books.
func (s *DonationService) BalanceIntegrityReport(ctx context.Context) ([]entities.BalanceDrift, error) {
	if s.integrity == nil {
		return nil, common.NewServiceError(common.ErrInternal, "Integrity reporting is not configured")
	}
	rows, err := s.integrity.BalanceReport(ctx)
	if err != nil {
		return nil, translateDBError(err, "")
	}
	return rows, nil
}
