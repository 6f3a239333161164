package services

import (
	"context"
	"time"

	"donatello/backend/internal/common"
	"donatello/backend/internal/constants"
	"donatello/backend/internal/db/repositories"
	gormModels "donatello/backend/internal/models/gorm"
)

// LookupService resolves role and fundraise status reference rows, caching
// them process-locally. Both tables are seeded once at startup and never
// mutated, so cached rows cannot go stale.
type LookupService struct {
	repo  *repositories.LookupRepository
	cache common.CacheInterface
}

func NewLookupService(repo *repositories.LookupRepository, cache common.CacheInterface) *LookupService {
	return &LookupService{repo: repo, cache: cache}
}

func (s *LookupService) RoleByName(ctx context.Context, name constants.EmployeeRole) (*gormModels.Role, error) {
	key := string(constants.CachePrefixEmployeeRole) + string(name)
	val, err := s.cache.GetOrSet(key, 24*time.Hour, func() (any, error) {
		role, err := s.repo.GetRoleByName(ctx, name)
		if err != nil {
			return nil, translateDBError(err, "Role '"+string(name)+"' not found")
		}
		return role, nil
	})
	if err != nil {
		return nil, err
	}
	role, ok := val.(*gormModels.Role)
	if !ok {
		return nil, common.NewServiceError(common.ErrInternal, "Role cache entry has wrong type")
	}
	return role, nil
}

func (s *LookupService) StatusByName(ctx context.Context, name constants.FundraiseStatusName) (*gormModels.FundraiseStatus, error) {
	key := string(constants.CachePrefixFundraiseStatus) + string(name)
	val, err := s.cache.GetOrSet(key, 24*time.Hour, func() (any, error) {
		status, err := s.repo.GetStatusByName(ctx, name)
		if err != nil {
			return nil, translateDBError(err, "Status '"+string(name)+"' not found")
		}
		return status, nil
	})
	if err != nil {
		return nil, err
	}
	status, ok := val.(*gormModels.FundraiseStatus)
	if !ok {
		return nil, common.NewServiceError(common.ErrInternal, "Status cache entry has wrong type")
	}
	return status, nil
}

// Prepopulate seeds the role and fundraise status tables. Safe to run on
// every startup.
func (s *LookupService) Prepopulate(ctx context.Context) error {
	for _, role := range constants.AllRoles {
		if err := s.repo.EnsureRole(ctx, role); err != nil {
			return translateDBError(err, "")
		}
	}
	for _, status := range constants.AllFundraiseStatuses {
		if err := s.repo.EnsureStatus(ctx, status); err != nil {
			return translateDBError(err, "")
		}
	}
	return nil
}
