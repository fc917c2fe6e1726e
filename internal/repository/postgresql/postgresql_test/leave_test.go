package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveRepository_ExistsOverlap(t *testing.T) {
	setup := Open(t)
	ctx := context.Background()
	allocRepo := postgresql.NewAllocationRepository(setup.DB)
	attrRepo := postgresql.NewAttributeRepository(setup.DB)
	recordRepo := postgresql.NewRecordRepository(setup.DB)
	leaveRepo := postgresql.NewLeaveRepository(setup.DB)

	companyID := setup.CreateCompany(t, "Acme")
	userID := setup.CreateUser(t, "worker@example.com")
	cuID := setup.CreateMember(t, userID, companyID, nil)

	alloc, err := allocRepo.FindOrCreate(ctx, companyID)
	require.NoError(t, err)
	same, err := allocRepo.FindOrCreate(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, alloc.ID, same.ID)

	attr, err := attrRepo.Create(ctx, leave.LeaveAttribute{
		AllocationID: alloc.ID, Year: 2025, LeaveName: "Annual", Role: "Employee", AllocatedDays: 12, IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, companyID, attr.CompanyID)

	_, err = attrRepo.Create(ctx, leave.LeaveAttribute{
		AllocationID: alloc.ID, Year: 2025, LeaveName: "Annual", Role: "Employee", AllocatedDays: 5, IsActive: true,
	})
	assert.ErrorIs(t, err, leave.ErrDuplicateLeaveAttribute)

	rec, err := recordRepo.Create(ctx, leave.NewRecord(attr, cuID, userID))
	require.NoError(t, err)
	assert.Equal(t, 12.0, rec.RemainingDays)

	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	created, err := leaveRepo.Create(ctx, leave.Leave{
		CompanyID: companyID, UserID: userID, CompanyUserID: cuID, LeaveTypeID: attr.ID,
		UsersLeaveRecordID: rec.ID, StartDate: start, EndDate: end, LeaveDays: 5, Status: leave.StatusPending,
	})
	require.NoError(t, err)
	require.NotNil(t, created.LeaveName)
	assert.Equal(t, "Annual", *created.LeaveName)

	tests := []struct {
		name      string
		from, to  time.Time
		excludeID *string
		want      bool
	}{
		{"touching first day", end, end.AddDate(0, 0, 3), nil, true},
		{"inside", start.AddDate(0, 0, 1), start.AddDate(0, 0, 2), nil, true},
		{"after", end.AddDate(0, 0, 1), end.AddDate(0, 0, 4), nil, false},
		{"self excluded", start, end, &created.ID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := leaveRepo.ExistsOverlap(ctx, userID, companyID, tt.from, tt.to, tt.excludeID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejected leave no longer blocks", func(t *testing.T) {
		created.Status = leave.StatusRejected
		require.NoError(t, leaveRepo.Update(ctx, created))

		got, err := leaveRepo.ExistsOverlap(ctx, userID, companyID, start, end, nil)
		require.NoError(t, err)
		assert.False(t, got)
	})
}
