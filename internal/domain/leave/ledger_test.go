package leave

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersLeaveRecord_DebitThenCredit(t *testing.T) {
	rec := UsersLeaveRecord{UsedDays: 0, RemainingDays: 10}

	debited, err := rec.Debit(3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, debited.UsedDays)
	assert.Equal(t, 7.0, debited.RemainingDays)
	assert.True(t, debited.Balanced(10))

	credited, err := debited.Credit(3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, credited.UsedDays)
	assert.Equal(t, 10.0, credited.RemainingDays)
	assert.True(t, credited.Balanced(10))
}

func TestUsersLeaveRecord_Debit_Insufficient(t *testing.T) {
	rec := UsersLeaveRecord{RemainingDays: 3}

	got, err := rec.Debit(5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.Equal(t, apperror.InsufficientBalance, apperror.KindOf(err))
	assert.Equal(t, rec, got)
}

func TestUsersLeaveRecord_Debit_NonPositive(t *testing.T) {
	_, err := UsersLeaveRecord{RemainingDays: 3}.Debit(0)
	assert.True(t, errors.Is(err, ErrInvalidLeaveDays))
}

func TestUsersLeaveRecord_Credit_MoreThanUsed(t *testing.T) {
	_, err := UsersLeaveRecord{UsedDays: 1, RemainingDays: 9}.Credit(2)
	assert.True(t, errors.Is(err, ErrLedgerOutOfBalance))
}

func TestUsersLeaveRecord_CarryForward(t *testing.T) {
	rec := UsersLeaveRecord{UsedDays: 2, RemainingDays: 8}

	added, err := rec.AddCarryForward(2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, added.CarriedOverDays)
	assert.Equal(t, 10.5, added.RemainingDays)
	assert.True(t, added.Balanced(10))

	removed, err := added.RemoveCarryForward(2.5)
	require.NoError(t, err)
	assert.Equal(t, rec, removed)

	_, err = rec.AddCarryForward(0)
	assert.True(t, errors.Is(err, ErrInvalidCarryForwardDays))
}

func TestUsersLeaveRecord_RemoveCarryForward_WouldGoNegative(t *testing.T) {
	// Carried days were already consumed by approved leave.
	rec := UsersLeaveRecord{UsedDays: 12, RemainingDays: 1, CarriedOverDays: 3}

	_, err := rec.RemoveCarryForward(3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCarryForwardInUse))
	assert.True(t, errors.Is(err, apperror.Validation))
}

func TestUsersLeaveRecord_Rebalance(t *testing.T) {
	rec := UsersLeaveRecord{UsedDays: 4, RemainingDays: 8, CarriedOverDays: 2}

	raised, err := rec.Rebalance(15)
	require.NoError(t, err)
	assert.Equal(t, 13.0, raised.RemainingDays)

	_, err = rec.Rebalance(1)
	assert.True(t, errors.Is(err, ErrAllocationBelowUsage))
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord(LeaveAttribute{ID: "attr-1", Year: 2025, AllocatedDays: 12}, "cu-1", "u-1")
	assert.Equal(t, 12.0, rec.RemainingDays)
	assert.Equal(t, 2025, rec.Year)
	assert.True(t, rec.Balanced(12))
}

func TestUsersLeaveRecord_FractionalDaysStayExact(t *testing.T) {
	rec := UsersLeaveRecord{RemainingDays: 1}
	var err error
	for i := 0; i < 10; i++ {
		rec, err = rec.Debit(0.1)
		require.NoError(t, err)
	}
	assert.Equal(t, 0.0, rec.RemainingDays)
	assert.Equal(t, 1.0, rec.UsedDays)
}
