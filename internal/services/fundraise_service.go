package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"donatello/backend/internal/common"
	"donatello/backend/internal/constants"
	"donatello/backend/internal/db/repositories"
	"donatello/backend/internal/models/dtos"
	gormModels "donatello/backend/internal/models/gorm"
)

// FundraiseService owns fundraise CRUD and the append-only status history.
// A fundraise's current status is the latest history entry; donatability is
// derived from it on every read, never stored.
type FundraiseService struct {
	db          *gorm.DB
	fundraisers *repositories.FundraiseRepository
	balances    *repositories.BalanceRepository
	members     *CharityEmployeeService
	lookup      *LookupService
	clock       common.Clock
}

func NewFundraiseService(
	db *gorm.DB,
	fundraisers *repositories.FundraiseRepository,
	balances *repositories.BalanceRepository,
	members *CharityEmployeeService,
	lookup *LookupService,
	clock common.Clock,
) *FundraiseService {
	return &FundraiseService{
		db:          db,
		fundraisers: fundraisers,
		balances:    balances,
		members:     members,
		lookup:      lookup,
		clock:       clock,
	}
}

// Create opens a fundraise with its own collecting balance and the initial
// "New" status entry, all in one transaction.
func (s *FundraiseService) Create(ctx context.Context, callerID string, req *dtos.FundraiseCreateRequest) (*dtos.FundraiseResponse, error) {
	if err := s.members.Authorize(ctx, req.CharityID, callerID, constants.ActionAddFundraise); err != nil {
		return nil, err
	}
	if !req.Goal.IsPositive() {
		return nil, common.NewServiceError(common.ErrInvalidInput, constants.MsgAmountNotPositive)
	}

	statusRow, err := s.lookup.StatusByName(ctx, constants.StatusNew)
	if err != nil {
		return nil, err
	}

	var endingAt *time.Time
	if req.EndingAt != nil && *req.EndingAt != "" {
		t, err := time.Parse(time.RFC3339, *req.EndingAt)
		if err != nil {
			return nil, common.WrapServiceError(common.ErrInvalidInput,
				"ending_at must be RFC3339", err)
		}
		endingAt = &t
	}

	var fundraise gormModels.Fundraise
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := s.balances.WithTx(tx).Create(ctx)
		if err != nil {
			return translateDBError(err, "")
		}

		fundraise = gormModels.Fundraise{
			CharityID:   req.CharityID,
			Title:       req.Title,
			Description: req.Description,
			Goal:        req.Goal,
			EndingAt:    endingAt,
			BalanceID:   &balance.ID,
		}
		fundraisers := s.fundraisers.WithTx(tx)
		if err := fundraisers.Create(ctx, &fundraise); err != nil {
			return translateDBError(err, "")
		}
		return translateDBError(fundraisers.AppendStatus(ctx, &gormModels.FundraiseStatusHistory{
			FundraiseID: fundraise.ID,
			StatusID:    statusRow.ID,
			AppliedAt:   s.clock.Now(),
		}), "")
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, &fundraise)
}

func (s *FundraiseService) GetByID(ctx context.Context, id string) (*dtos.FundraiseResponse, error) {
	fundraise, err := s.fundraisers.GetByID(ctx, id)
	if err != nil {
		return nil, translateDBError(err, "Fundraise with id: '"+id+"' not found")
	}
	return s.toResponse(ctx, fundraise)
}

func (s *FundraiseService) ListByCharity(ctx context.Context, charityID string, page, pageSize int) (*dtos.Page[dtos.FundraiseResponse], error) {
	fundraisers, total, err := s.fundraisers.ListByCharity(ctx, charityID, page, pageSize)
	if err != nil {
		return nil, translateDBError(err, "")
	}
	items := make([]dtos.FundraiseResponse, 0, len(fundraisers))
	for i := range fundraisers {
		resp, err := s.toResponse(ctx, &fundraisers[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &dtos.Page[dtos.FundraiseResponse]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

func (s *FundraiseService) Update(ctx context.Context, id, callerID string, req *dtos.FundraiseUpdateRequest) (*dtos.FundraiseResponse, error) {
	fundraise, err := s.fundraisers.GetByID(ctx, id)
	if err != nil {
		return nil, translateDBError(err, "Fundraise with id: '"+id+"' not found")
	}
	if err := s.members.Authorize(ctx, fundraise.CharityID, callerID, constants.ActionAddFundraise); err != nil {
		return nil, err
	}

	if req.Title != nil {
		fundraise.Title = *req.Title
	}
	if req.Description != nil {
		fundraise.Description = *req.Description
	}
	if req.Goal != nil {
		if !req.Goal.IsPositive() {
			return nil, common.NewServiceError(common.ErrInvalidInput, constants.MsgAmountNotPositive)
		}
		fundraise.Goal = *req.Goal
	}

	if err := s.fundraisers.Update(ctx, fundraise); err != nil {
		return nil, translateDBError(err, "")
	}
	return s.toResponse(ctx, fundraise)
}

func (s *FundraiseService) Delete(ctx context.Context, id, callerID string) error {
	fundraise, err := s.fundraisers.GetByID(ctx, id)
	if err != nil {
		return translateDBError(err, "Fundraise with id: '"+id+"' not found")
	}
	if err := s.members.Authorize(ctx, fundraise.CharityID, callerID, constants.ActionRemoveFundraise); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return translateDBError(s.fundraisers.WithTx(tx).Delete(ctx, id), "")
	})
}

// AdvanceStatus moves a fundraise to a new status when the transition table
// permits it. The current status is re-read inside the transaction, so two
// racing calls cannot both append from the same predecessor.
func (s *FundraiseService) AdvanceStatus(ctx context.Context, id, callerID string, statusName string) (*dtos.FundraiseResponse, error) {
	target := constants.FundraiseStatusName(statusName)

	fundraise, err := s.fundraisers.GetByID(ctx, id)
	if err != nil {
		return nil, translateDBError(err, "Fundraise with id: '"+id+"' not found")
	}
	if err := s.members.Authorize(ctx, fundraise.CharityID, callerID, constants.ActionAdvanceStatus); err != nil {
		return nil, err
	}

	targetRow, err := s.lookup.StatusByName(ctx, target)
	if err != nil {
		return nil, err
	}

	err = txWithRetry(ctx, s.db, func(tx *gorm.DB) error {
		fundraisers := s.fundraisers.WithTx(tx)
		current, err := fundraisers.CurrentStatus(ctx, id)
		if err != nil {
			return translateDBError(err, "")
		}
		if !constants.TransitionAllowed(current.Status.Name, target) {
			return common.NewServiceError(common.ErrIllegalTransition,
				fmt.Sprintf(constants.MsgIllegalTransFmt, current.Status.Name, target))
		}
		return translateDBError(fundraisers.AppendStatus(ctx, &gormModels.FundraiseStatusHistory{
			FundraiseID: id,
			StatusID:    targetRow.ID,
			AppliedAt:   s.clock.Now(),
		}), "")
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, fundraise)
}

// StatusHistory returns the full transition trail, oldest first.
func (s *FundraiseService) StatusHistory(ctx context.Context, id string) ([]dtos.StatusHistoryResponse, error) {
	if _, err := s.fundraisers.GetByID(ctx, id); err != nil {
		return nil, translateDBError(err, "Fundraise with id: '"+id+"' not found")
	}
	entries, err := s.fundraisers.StatusHistory(ctx, id)
	if err != nil {
		return nil, translateDBError(err, "")
	}
	items := make([]dtos.StatusHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dtos.StatusHistoryResponse{
			Status:    string(entry.Status.Name),
			AppliedAt: entry.AppliedAt,
		})
	}
	return items, nil
}

func (s *FundraiseService) toResponse(ctx context.Context, fundraise *gormModels.Fundraise) (*dtos.FundraiseResponse, error) {
	current, err := s.fundraisers.CurrentStatus(ctx, fundraise.ID)
	if err != nil {
		return nil, translateDBError(err, "")
	}
	return &dtos.FundraiseResponse{
		ID:          fundraise.ID,
		CharityID:   fundraise.CharityID,
		Title:       fundraise.Title,
		Description: fundraise.Description,
		Goal:        fundraise.Goal,
		EndingAt:    fundraise.EndingAt,
		BalanceID:   fundraise.BalanceID,
		Status:      string(current.Status.Name),
		IsDonatable: constants.IsDonatable(current.Status.Name),
		CreatedAt:   fundraise.CreatedAt,
	}, nil
}
