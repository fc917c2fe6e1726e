package user

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/pagination"
)

type UserServiceImpl struct {
	user.UserRepository
}

func NewUserService(userRepository user.UserRepository) user.UserService {
	return &UserServiceImpl{UserRepository: userRepository}
}

func mapUserToResponse(u user.User) user.UserResponse {
	return user.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CreateUser implements user.UserService.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	exists, err := s.UserRepository.ExistsByEmail(ctx, req.Email, nil)
	if err != nil {
		slog.Error("failed to check user email", "error", err)
		return user.UserResponse{}, err
	}
	if exists {
		return user.UserResponse{}, user.ErrEmailExists
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	created, err := s.UserRepository.Create(ctx, user.User{Email: req.Email, IsActive: isActive})
	if err != nil {
		return user.UserResponse{}, err
	}
	return mapUserToResponse(created), nil
}

// ListUsers implements user.UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context, filter user.UserFilter) (user.ListUserResponse, error) {
	users, total, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return user.ListUserResponse{}, err
	}

	resp := user.ListUserResponse{
		Page:  pagination.NewPage(filter.Page, filter.Limit, total),
		Users: make([]user.UserResponse, 0, len(users)),
	}
	for _, u := range users {
		resp.Users = append(resp.Users, mapUserToResponse(u))
	}
	return resp, nil
}

// GetUser implements user.UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return mapUserToResponse(u), nil
}

// GetUserByEmail implements user.UserService.
func (s *UserServiceImpl) GetUserByEmail(ctx context.Context, email string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByEmail(ctx, email)
	if err != nil {
		return user.UserResponse{}, err
	}
	return mapUserToResponse(u), nil
}

// UpdateUser implements user.UserService.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	current, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.Email != nil && *req.Email != current.Email {
		exists, err := s.UserRepository.ExistsByEmail(ctx, *req.Email, &req.ID)
		if err != nil {
			return user.UserResponse{}, err
		}
		if exists {
			return user.UserResponse{}, user.ErrEmailExists
		}
		current.Email = *req.Email
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}

	updated, err := s.UserRepository.Update(ctx, current)
	if err != nil {
		return user.UserResponse{}, err
	}
	return mapUserToResponse(updated), nil
}

// DeleteUser implements user.UserService.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	return s.UserRepository.Delete(ctx, id)
}
