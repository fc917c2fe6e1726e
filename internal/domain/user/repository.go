package user

import "context"

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id string) error
}
