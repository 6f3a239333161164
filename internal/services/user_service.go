package services

import (
	"context"

	"donatello/backend/internal/common"
	"donatello/backend/internal/db/repositories"
	"donatello/backend/internal/models/dtos"
)

type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(users *repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*dtos.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translateDBError(err, "User with id: '"+id+"' not found")
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *UserService) List(ctx context.Context, page, pageSize int) (*dtos.Page[dtos.UserResponse], error) {
	users, total, err := s.users.List(ctx, page, pageSize)
	if err != nil {
		return nil, translateDBError(err, "")
	}
	items := make([]dtos.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userToResponse(&users[i]))
	}
	return &dtos.Page[dtos.UserResponse]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// Update patches the caller's own profile fields.
func (s *UserService) Update(ctx context.Context, id string, req *dtos.UpdateUserRequest) (*dtos.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translateDBError(err, "User with id: '"+id+"' not found")
	}

	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}

	if err := s.users.Update(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, common.WrapServiceError(common.ErrConflict,
				"Phone number is already taken", err)
		}
		return nil, translateDBError(err, "")
	}
	resp := userToResponse(user)
	return &resp, nil
}

// Delete removes the caller's own account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return translateDBError(err, "User with id: '"+id+"' not found")
	}
	return translateDBError(s.users.Delete(ctx, id), "")
}
