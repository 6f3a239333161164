package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"donatello/backend/internal/common"
	"donatello/backend/internal/constants"
	"donatello/backend/internal/db/repositories"
	"donatello/backend/internal/models/dtos"
	gormModels "donatello/backend/internal/models/gorm"
)

// CharityEmployeeService is the authorization engine for charity-scoped
// operations plus the employee roster management built on top of it. Every
// check resolves the caller's membership first: non-members read as
// unauthorized before any role policy is consulted.
type CharityEmployeeService struct {
	db        *gorm.DB
	employees *repositories.EmployeeRepository
	lookup    *LookupService
}

func NewCharityEmployeeService(
	db *gorm.DB,
	employees *repositories.EmployeeRepository,
	lookup *LookupService,
) *CharityEmployeeService {
	return &CharityEmployeeService{db: db, employees: employees, lookup: lookup}
}

func rolesOf(membership *gormModels.Membership) []constants.EmployeeRole {
	roles := make([]constants.EmployeeRole, 0, len(membership.Roles))
	for _, link := range membership.Roles {
		roles = append(roles, link.Role.Name)
	}
	return roles
}

// CallerRoles resolves the caller's membership in a charity, or fails with
// the not-a-member error when there is none.
func (s *CharityEmployeeService) CallerRoles(ctx context.Context, charityID, userID string) (*gormModels.Membership, []constants.EmployeeRole, error) {
	membership, err := s.employees.FindMembershipByUser(ctx, charityID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, common.NewServiceError(common.ErrNotAMember,
				fmt.Sprintf(constants.MsgNotAMemberFmt, charityID))
		}
		return nil, nil, translateDBError(err, "")
	}
	return membership, rolesOf(membership), nil
}

// Authorize checks the caller's roles against the policy for the action.
func (s *CharityEmployeeService) Authorize(ctx context.Context, charityID, userID string, action constants.CharityAction) error {
	_, roles, err := s.CallerRoles(ctx, charityID, userID)
	if err != nil {
		return err
	}
	allowed := constants.ActionAllowedRoles[action]
	if !constants.RoleSetAllowed(roles, allowed) {
		return common.NewServiceError(common.ErrForbidden,
			fmt.Sprintf(constants.MsgForbiddenFmt, roles))
	}
	return nil
}

// AddEmployee brings a user onto the charity roster with one initial role.
// Who may grant the role follows the assign-role policy: only supervisors
// seat new supervisors, either role seats managers.
func (s *CharityEmployeeService) AddEmployee(ctx context.Context, charityID, callerID string, req *dtos.AddEmployeeRequest) (*dtos.EmployeeResponse, error) {
	role := constants.EmployeeRole(req.Role)

	_, callerRoles, err := s.CallerRoles(ctx, charityID, callerID)
	if err != nil {
		return nil, err
	}
	if !constants.RoleSetAllowed(callerRoles, constants.AssignRoleAllowedRoles[role]) {
		return nil, common.NewServiceError(common.ErrForbidden,
			fmt.Sprintf(constants.MsgForbiddenFmt, callerRoles))
	}

	roleRow, err := s.lookup.RoleByName(ctx, role)
	if err != nil {
		return nil, err
	}

	var membership *gormModels.Membership
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		employees := s.employees.WithTx(tx)

		employee, err := employees.GetOrCreateEmployee(ctx, req.UserID)
		if err != nil {
			return translateDBError(err, "User with id: '"+req.UserID+"' not found")
		}

		membership = &gormModels.Membership{
			CharityID:  charityID,
			EmployeeID: employee.ID,
		}
		if err := employees.CreateMembership(ctx, membership); err != nil {
			if isUniqueViolation(err) {
				return common.WrapServiceError(common.ErrConflict,
					"User is already an employee of this charity", err)
			}
			return translateDBError(err, "")
		}
		return translateDBError(employees.AddRole(ctx, membership.ID, roleRow.ID), "")
	})
	if err != nil {
		return nil, err
	}

	return s.employeeResponse(ctx, charityID, membership.EmployeeID)
}

// RemoveEmployee drops a user from the roster. Removing a supervisor takes a
// supervisor caller, and the last supervisor of a charity cannot be removed.
func (s *CharityEmployeeService) RemoveEmployee(ctx context.Context, charityID, callerID, targetUserID string) error {
	_, callerRoles, err := s.CallerRoles(ctx, charityID, callerID)
	if err != nil {
		return err
	}

	target, err := s.employees.FindMembershipByUser(ctx, charityID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NewServiceError(common.ErrNotFound,
				"User with id: '"+targetUserID+"' is not an employee of this charity")
		}
		return translateDBError(err, "")
	}
	targetRoles := rolesOf(target)

	highest := constants.RoleManager
	for _, role := range targetRoles {
		if role == constants.RoleSupervisor {
			highest = constants.RoleSupervisor
		}
	}
	if !constants.RoleSetAllowed(callerRoles, constants.RemoveEmployeeAllowedRoles[highest]) {
		return common.NewServiceError(common.ErrForbidden,
			fmt.Sprintf(constants.MsgForbiddenFmt, callerRoles))
	}

	// The guard and the delete share one transaction, so two racing
	// removals cannot both count the other supervisor as still present.
	return txWithRetry(ctx, s.db, func(tx *gorm.DB) error {
		employees := s.employees.WithTx(tx)
		if highest == constants.RoleSupervisor {
			if err := s.guardLastSupervisor(ctx, employees, charityID); err != nil {
				return err
			}
		}
		return translateDBError(employees.DeleteMembership(ctx, target.ID), "")
	})
}

// AssignRole grants an additional role to an existing employee.
func (s *CharityEmployeeService) AssignRole(ctx context.Context, charityID, callerID, targetUserID string, roleName string) (*dtos.EmployeeResponse, error) {
	role := constants.EmployeeRole(roleName)

	_, callerRoles, err := s.CallerRoles(ctx, charityID, callerID)
	if err != nil {
		return nil, err
	}
	if !constants.RoleSetAllowed(callerRoles, constants.AssignRoleAllowedRoles[role]) {
		return nil, common.NewServiceError(common.ErrForbidden,
			fmt.Sprintf(constants.MsgForbiddenFmt, callerRoles))
	}

	target, err := s.employees.FindMembershipByUser(ctx, charityID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewServiceError(common.ErrNotFound,
				"User with id: '"+targetUserID+"' is not an employee of this charity")
		}
		return nil, translateDBError(err, "")
	}
	for _, held := range rolesOf(target) {
		if held == role {
			return nil, common.NewServiceError(common.ErrConflict,
				"Employee already holds role: '"+roleName+"'")
		}
	}

	roleRow, err := s.lookup.RoleByName(ctx, role)
	if err != nil {
		return nil, err
	}
	if err := s.employees.AddRole(ctx, target.ID, roleRow.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, common.WrapServiceError(common.ErrConflict,
				"Employee already holds role: '"+roleName+"'", err)
		}
		return nil, translateDBError(err, "")
	}

	return s.employeeResponse(ctx, charityID, target.EmployeeID)
}

// RevokeRole removes one role from an employee, keeping the membership. The
// last supervisor role of a charity cannot be revoked.
func (s *CharityEmployeeService) RevokeRole(ctx context.Context, charityID, callerID, targetUserID string, roleName string) (*dtos.EmployeeResponse, error) {
	role := constants.EmployeeRole(roleName)

	_, callerRoles, err := s.CallerRoles(ctx, charityID, callerID)
	if err != nil {
		return nil, err
	}
	if !constants.RoleSetAllowed(callerRoles, constants.AssignRoleAllowedRoles[role]) {
		return nil, common.NewServiceError(common.ErrForbidden,
			fmt.Sprintf(constants.MsgForbiddenFmt, callerRoles))
	}

	target, err := s.employees.FindMembershipByUser(ctx, charityID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewServiceError(common.ErrNotFound,
				"User with id: '"+targetUserID+"' is not an employee of this charity")
		}
		return nil, translateDBError(err, "")
	}

	roleRow, err := s.lookup.RoleByName(ctx, role)
	if err != nil {
		return nil, err
	}

	// Guard and removal run in the same transaction; see RemoveEmployee.
	err = txWithRetry(ctx, s.db, func(tx *gorm.DB) error {
		employees := s.employees.WithTx(tx)
		if role == constants.RoleSupervisor {
			if err := s.guardLastSupervisor(ctx, employees, charityID); err != nil {
				return err
			}
		}
		removed, err := employees.RemoveRole(ctx, target.ID, roleRow.ID)
		if err != nil {
			return translateDBError(err, "")
		}
		if removed == 0 {
			return common.NewServiceError(common.ErrNotFound,
				"Employee does not hold role: '"+roleName+"'")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.employeeResponse(ctx, charityID, target.EmployeeID)
}

// ListMembers returns the roster; visible to any member of the charity.
func (s *CharityEmployeeService) ListMembers(ctx context.Context, charityID, callerID string) ([]dtos.EmployeeResponse, error) {
	if _, _, err := s.CallerRoles(ctx, charityID, callerID); err != nil {
		return nil, err
	}

	memberships, err := s.employees.ListMembers(ctx, charityID)
	if err != nil {
		return nil, translateDBError(err, "")
	}

	items := make([]dtos.EmployeeResponse, 0, len(memberships))
	for i := range memberships {
		items = append(items, membershipToResponse(&memberships[i]))
	}
	return items, nil
}

// guardLastSupervisor fails when the charity has exactly one supervisor
// membership left. Callers pass the tx-bound repository so the count sees
// the transaction the removal runs in.
func (s *CharityEmployeeService) guardLastSupervisor(ctx context.Context, employees *repositories.EmployeeRepository, charityID string) error {
	supervisorRow, err := s.lookup.RoleByName(ctx, constants.RoleSupervisor)
	if err != nil {
		return err
	}
	count, err := employees.CountMembershipsWithRole(ctx, charityID, supervisorRow.ID)
	if err != nil {
		return translateDBError(err, "")
	}
	if count <= 1 {
		return common.NewServiceError(common.ErrLastSupervisor,
			fmt.Sprintf(constants.MsgLastSupervisorFmt, charityID))
	}
	return nil
}

func (s *CharityEmployeeService) employeeResponse(ctx context.Context, charityID, employeeID string) (*dtos.EmployeeResponse, error) {
	memberships, err := s.employees.ListMembers(ctx, charityID)
	if err != nil {
		return nil, translateDBError(err, "")
	}
	for i := range memberships {
		if memberships[i].EmployeeID == employeeID {
			resp := membershipToResponse(&memberships[i])
			return &resp, nil
		}
	}
	return nil, common.NewServiceError(common.ErrNotFound, "Employee not found")
}

func membershipToResponse(membership *gormModels.Membership) dtos.EmployeeResponse {
	roles := make([]string, 0, len(membership.Roles))
	for _, link := range membership.Roles {
		roles = append(roles, string(link.Role.Name))
	}
	return dtos.EmployeeResponse{
		ID:       membership.EmployeeID,
		UserID:   membership.Employee.UserID,
		Username: membership.Employee.User.Username,
		Roles:    roles,
	}
}
