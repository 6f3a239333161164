package services

import (
	"context"

	"gorm.io/gorm"

	"donatello/backend/internal/common"
	"donatello/backend/internal/constants"
	"donatello/backend/internal/db/repositories"
	"donatello/backend/internal/models/dtos"
	gormModels "donatello/backend/internal/models/gorm"
)

type CharityService struct {
	db        *gorm.DB
	charities *repositories.CharityRepository
	employees *repositories.EmployeeRepository
	members   *CharityEmployeeService
	lookup    *LookupService
}

func NewCharityService(
	db *gorm.DB,
	charities *repositories.CharityRepository,
	employees *repositories.EmployeeRepository,
	members *CharityEmployeeService,
	lookup *LookupService,
) *CharityService {
	return &CharityService{
		db:        db,
		charities: charities,
		employees: employees,
		members:   members,
		lookup:    lookup,
	}
}

// Create registers a charity and seats the creator as its first supervisor
// in the same transaction, so a charity never exists without one.
func (s *CharityService) Create(ctx context.Context, creatorID string, req *dtos.CharityCreateRequest) (*dtos.CharityResponse, error) {
	supervisorRow, err := s.lookup.RoleByName(ctx, constants.RoleSupervisor)
	if err != nil {
		return nil, err
	}

	charity := gormModels.Charity{
		Title:       req.Title,
		Description: req.Description,
		Email:       req.Email,
		Phone:       req.Phone,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.charities.WithTx(tx).Create(ctx, &charity); err != nil {
			if isUniqueViolation(err) {
				return common.WrapServiceError(common.ErrConflict,
					"Charity email or phone is already taken", err)
			}
			return translateDBError(err, "")
		}

		employees := s.employees.WithTx(tx)
		employee, err := employees.GetOrCreateEmployee(ctx, creatorID)
		if err != nil {
			return translateDBError(err, "")
		}
		membership := gormModels.Membership{
			CharityID:  charity.ID,
			EmployeeID: employee.ID,
		}
		if err := employees.CreateMembership(ctx, &membership); err != nil {
			return translateDBError(err, "")
		}
		return translateDBError(employees.AddRole(ctx, membership.ID, supervisorRow.ID), "")
	})
	if err != nil {
		return nil, err
	}

	resp := charityToResponse(&charity)
	return &resp, nil
}

func (s *CharityService) GetByID(ctx context.Context, id string) (*dtos.CharityResponse, error) {
	charity, err := s.charities.GetByID(ctx, id)
	if err != nil {
		return nil, translateDBError(err, "Charity with id: '"+id+"' not found")
	}
	resp := charityToResponse(charity)
	return &resp, nil
}

func (s *CharityService) List(ctx context.Context, titleFilter string, page, pageSize int) (*dtos.Page[dtos.CharityResponse], error) {
	charities, total, err := s.charities.List(ctx, titleFilter, page, pageSize)
	if err != nil {
		return nil, translateDBError(err, "")
	}
	items := make([]dtos.CharityResponse, 0, len(charities))
	for i := range charities {
		items = append(items, charityToResponse(&charities[i]))
	}
	return &dtos.Page[dtos.CharityResponse]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// Update patches charity profile fields; supervisors only.
func (s *CharityService) Update(ctx context.Context, id, callerID string, req *dtos.CharityUpdateRequest) (*dtos.CharityResponse, error) {
	charity, err := s.charities.GetByID(ctx, id)
	if err != nil {
		return nil, translateDBError(err, "Charity with id: '"+id+"' not found")
	}
	if err := s.members.Authorize(ctx, id, callerID, constants.ActionEditCharity); err != nil {
		return nil, err
	}

	if req.Title != nil {
		charity.Title = *req.Title
	}
	if req.Description != nil {
		charity.Description = *req.Description
	}
	if req.Email != nil {
		charity.Email = *req.Email
	}
	if req.Phone != nil {
		charity.Phone = *req.Phone
	}

	if err := s.charities.Update(ctx, charity); err != nil {
		if isUniqueViolation(err) {
			return nil, common.WrapServiceError(common.ErrConflict,
				"Charity email or phone is already taken", err)
		}
		return nil, translateDBError(err, "")
	}
	resp := charityToResponse(charity)
	return &resp, nil
}

// Delete removes a charity; supervisors only.
func (s *CharityService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.charities.GetByID(ctx, id); err != nil {
		return translateDBError(err, "Charity with id: '"+id+"' not found")
	}
	if err := s.members.Authorize(ctx, id, callerID, constants.ActionDeleteCharity); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return translateDBError(s.charities.WithTx(tx).Delete(ctx, id), "")
	})
}

func charityToResponse(charity *gormModels.Charity) dtos.CharityResponse {
	return dtos.CharityResponse{
		ID:          charity.ID,
		Title:       charity.Title,
		Description: charity.Description,
		Email:       charity.Email,
		Phone:       charity.Phone,
		CreatedAt:   charity.CreatedAt,
	}
}
