package repositories

import (
	"context"
	"errors"

	gormModels "donatello/backend/internal/models/gorm"

	"gorm.io/gorm"
)

// EmployeeRepository covers employees, charity memberships and the role
// links hanging off a membership.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *EmployeeRepository) WithTx(tx *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: tx}
}

// GetOrCreateEmployee returns the employee record for a user, creating it
// the first time the user joins any charity.
func (r *EmployeeRepository) GetOrCreateEmployee(ctx context.Context, userID string) (*gormModels.Employee, error) {
	var employee gormModels.Employee
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&employee).Error
	if err == nil {
		return &employee, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	employee = gormModels.Employee{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *EmployeeRepository) GetEmployeeByUserID(ctx context.Context, userID string) (*gormModels.Employee, error) {
	var employee gormModels.Employee
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindMembershipByUser resolves the user's membership in a charity with its
// role set preloaded, or gorm.ErrRecordNotFound when the user is not a
// member.
func (r *EmployeeRepository) FindMembershipByUser(ctx context.Context, charityID, userID string) (*gormModels.Membership, error) {
	var membership gormModels.Membership
	err := r.db.WithContext(ctx).
		Preload("Roles.Role").
		Joins("JOIN employees ON employees.id = charity_memberships.employee_id").
		Where("charity_memberships.charity_id = ? AND employees.user_id = ?", charityID, userID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *EmployeeRepository) FindMembership(ctx context.Context, charityID, employeeID string) (*gormModels.Membership, error) {
	var membership gormModels.Membership
	err := r.db.WithContext(ctx).
		Preload("Roles.Role").
		Where("charity_id = ? AND employee_id = ?", charityID, employeeID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *EmployeeRepository) CreateMembership(ctx context.Context, membership *gormModels.Membership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

// DeleteMembership removes the membership row and its role links.
func (r *EmployeeRepository) DeleteMembership(ctx context.Context, membershipID string) error {
	if err := r.db.WithContext(ctx).
		Where("membership_id = ?", membershipID).
		Delete(&gormModels.MembershipRole{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("id = ?", membershipID).
		Delete(&gormModels.Membership{}).Error
}

func (r *EmployeeRepository) AddRole(ctx context.Context, membershipID, roleID string) error {
	link := gormModels.MembershipRole{MembershipID: membershipID, RoleID: roleID}
	return r.db.WithContext(ctx).Create(&link).Error
}

// RemoveRole drops one role link; returns rows affected so the caller can
// tell whether the role was actually held.
func (r *EmployeeRepository) RemoveRole(ctx context.Context, membershipID, roleID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("membership_id = ? AND role_id = ?", membershipID, roleID).
		Delete(&gormModels.MembershipRole{})
	return res.RowsAffected, res.Error
}

// CountMembershipsWithRole counts members of a charity holding the given
// role. Used to protect the last supervisor.
func (r *EmployeeRepository) CountMembershipsWithRole(ctx context.Context, charityID, roleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.MembershipRole{}).
		Joins("JOIN charity_memberships ON charity_memberships.id = membership_roles.membership_id").
		Where("charity_memberships.charity_id = ? AND membership_roles.role_id = ?", charityID, roleID).
		Count(&count).Error
	return count, err
}

// ListMembers returns every membership of a charity with users and roles
// preloaded.
func (r *EmployeeRepository) ListMembers(ctx context.Context, charityID string) ([]gormModels.Membership, error) {
	var memberships []gormModels.Membership
	err := r.db.WithContext(ctx).
		Preload("Employee.User").
		Preload("Roles.Role").
		Where("charity_id = ?", charityID).
		Order("created_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}
