package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/offday"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffDayRepository_Scopes(t *testing.T) {
	setup := Open(t)
	ctx := context.Background()
	offRepo := postgresql.NewCompanyOffRepository(setup.DB)
	dayRepo := postgresql.NewOffDayRepository(setup.DB)

	companyID := setup.CreateCompany(t, "Acme")
	adminID := setup.CreateUser(t, "admin@example.com")
	workerID := setup.CreateUser(t, "worker@example.com")
	adminCU := setup.CreateMember(t, adminID, companyID, nil)
	workerCU := setup.CreateMember(t, workerID, companyID, nil)

	co, err := offRepo.Create(ctx, offday.CompanyOff{CompanyID: companyID, WeekDay: []int{0, 6}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 6}, co.WeekDay)

	holiday := time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC)
	_, err = dayRepo.Create(ctx, offday.OffDay{
		CompanyID: companyID, CompanyOffID: co.ID, CreatedByID: adminCU,
		Name: "Independence Day", HolidayType: "PUBLIC", FromDate: holiday, ToDate: holiday,
	})
	require.NoError(t, err)

	personal := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	created, err := dayRepo.Create(ctx, offday.OffDay{
		CompanyID: companyID, CompanyOffID: co.ID, CreatedByID: adminCU,
		Name: "Wedding", HolidayType: "PERSONAL", FromDate: personal, ToDate: personal.AddDate(0, 0, 2),
		UserIDs: []string{workerCU},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{workerCU}, created.UserIDs)
	assert.False(t, created.CompanyWide())

	t.Run("company wide off day ignores personal ones", func(t *testing.T) {
		ok, err := dayRepo.HasCompanyWideOn(ctx, companyID, holiday)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = dayRepo.HasCompanyWideOn(ctx, companyID, personal)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("user off day resolves the global user id", func(t *testing.T) {
		ok, err := dayRepo.HasUserOffOn(ctx, companyID, workerID, personal.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = dayRepo.HasUserOffOn(ctx, companyID, adminID, personal)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("list by user", func(t *testing.T) {
		days, err := dayRepo.ListByUser(ctx, workerCU, offday.OffDayRangeFilter{})
		require.NoError(t, err)
		require.Len(t, days, 1)
		assert.Equal(t, "Wedding", days[0].Name)
	})
}
