package user

import "context"

type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	ListUsers(ctx context.Context, filter UserFilter) (ListUserResponse, error)
	GetUser(ctx context.Context, id string) (UserResponse, error)
	GetUserByEmail(ctx context.Context, email string) (UserResponse, error)
	UpdateUser(ctx context.Context, req UpdateUserRequest) (UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
}
