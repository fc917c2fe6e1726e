package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	setup := Open(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		created, err := repo.Create(ctx, user.User{Email: "jane@example.com", IsActive: true})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "jane@example.com", created.Email)
		assert.True(t, created.IsActive)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Create(ctx, user.User{Email: "jane@example.com", IsActive: true})
		assert.ErrorIs(t, err, user.ErrEmailExists)
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	setup := Open(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	id := setup.CreateUser(t, "john@example.com")

	found, err := repo.GetByEmail(ctx, "JOHN@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_List(t *testing.T) {
	setup := Open(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	setup.CreateUser(t, "a@example.com")
	setup.CreateUser(t, "b@example.com")
	setup.CreateUser(t, "c@other.org")

	email := "example.com"
	users, total, err := repo.List(ctx, user.UserFilter{Email: &email, Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 1)
}

func TestUserRepository_Delete(t *testing.T) {
	setup := Open(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	t.Run("refuses while memberships exist", func(t *testing.T) {
		userID := setup.CreateUser(t, "member@example.com")
		companyID := setup.CreateCompany(t, "Acme")
		setup.CreateMember(t, userID, companyID, nil)

		err := repo.Delete(ctx, userID)
		assert.ErrorIs(t, err, user.ErrUserHasMemberships)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := repo.Delete(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}
