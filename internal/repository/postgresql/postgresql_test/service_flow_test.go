package postgresql_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hrops-backend-go/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/hrops-backend-go/internal/service/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type openWindow struct{}

func (openWindow) IsInShift(ctx context.Context, companyUserID, companyID string, now time.Time) shift.WindowDecision {
	return shift.WindowDecision{Allowed: true, Reason: shift.ReasonInShiftWindow}
}

func (openWindow) ActiveAttribute(ctx context.Context, companyUserID, companyID string) (shift.ShiftAttribute, bool) {
	return shift.ShiftAttribute{}, false
}

func TestAttendanceService_ConcurrentPunchIn(t *testing.T) {
	setup := Open(t)
	db := setup.DB

	companyID := setup.CreateCompany(t, "Acme")
	userID := setup.CreateUser(t, "worker@example.com")
	cuID := setup.CreateMember(t, userID, companyID, nil)

	calendar := attendanceService.NewRepositoryCalendar(
		postgresql.NewLeaveRepository(db),
		postgresql.NewOffDayRepository(db),
		postgresql.NewCompanyOffRepository(db),
	)
	svc := attendanceService.NewAttendanceService(db,
		postgresql.NewAttendanceRepository(db),
		postgresql.NewPunchRepository(db),
		attendanceService.NewEligibilityGate(calendar, time.UTC),
		openWindow{},
		time.UTC,
	)

	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PunchIn(context.Background(), attendance.PunchInRequest{
				CompanyID: companyID, UserID: userID, CompanyUserID: cuID, Time: &at,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, attendance.ErrOpenPunchExists):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	out := at.Add(8 * time.Hour)
	result, err := svc.PunchOut(context.Background(), attendance.PunchOutRequest{
		CompanyID: companyID, UserID: userID, CompanyUserID: cuID, Time: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, 8.0, result.Attendance.TotalWorkHours)

	_, err = svc.PunchOut(context.Background(), attendance.PunchOutRequest{
		CompanyID: companyID, UserID: userID, CompanyUserID: cuID, Time: &out,
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedOut)
}

// firstMonday returns the first Monday of month in year.
func firstMonday(year int, month time.Month) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestLeaveService_ApproveRejectLedger(t *testing.T) {
	setup := Open(t)
	db := setup.DB
	ctx := context.Background()

	companyID := setup.CreateCompany(t, "Acme")
	userID := setup.CreateUser(t, "worker@example.com")
	adminID := setup.CreateUser(t, "admin@example.com")
	roleID := setup.CreateRole(t, companyID, "Staff")
	setup.CreateMember(t, userID, companyID, &roleID)

	attrRepo := postgresql.NewAttributeRepository(db)
	recordRepo := postgresql.NewRecordRepository(db)
	cfRepo := postgresql.NewCarryForwardRepository(db)
	cuRepo := postgresql.NewCompanyUserRepository(db)

	allocations := leaveService.NewAllocationService(db,
		postgresql.NewAllocationRepository(db), attrRepo, recordRepo, cfRepo,
		postgresql.NewCompanyRepository(db), cuRepo,
	)
	leaves := leaveService.NewLeaveService(db,
		postgresql.NewLeaveRepository(db), attrRepo, recordRepo, cfRepo, cuRepo, nil, 0,
	)

	year := time.Now().Year()
	alloc, err := allocations.CreateAllocation(ctx, leave.CreateAllocationRequest{
		CompanyID: companyID, Year: year, LeaveName: "Annual Leave", Roles: []string{"Staff"}, AllocatedDays: 10,
	})
	require.NoError(t, err)
	require.Len(t, alloc.Attributes, 1)
	require.Equal(t, 1, alloc.RecordsCreated)

	start := firstMonday(year, time.December)
	created, err := leaves.CreateLeave(ctx, leave.CreateLeaveRequest{
		CompanyID:   companyID,
		UserID:      userID,
		LeaveTypeID: alloc.Attributes[0].ID,
		StartDate:   start.Format("2006-01-02"),
		EndDate:     start.AddDate(0, 0, 2).Format("2006-01-02"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, created.Status)
	assert.Equal(t, 3.0, created.LeaveDays)

	balance := func() (float64, float64) {
		rec, err := recordRepo.GetByID(ctx, created.UsersLeaveRecordID)
		require.NoError(t, err)
		return rec.RemainingDays, rec.UsedDays
	}

	_, err = leaves.Approve(ctx, leave.ApproveLeaveRequest{ID: created.ID, ApproverID: adminID})
	require.NoError(t, err)
	remaining, used := balance()
	assert.Equal(t, 7.0, remaining)
	assert.Equal(t, 3.0, used)

	_, err = leaves.Approve(ctx, leave.ApproveLeaveRequest{ID: created.ID, ApproverID: adminID})
	require.NoError(t, err)
	remaining, _ = balance()
	assert.Equal(t, 7.0, remaining)

	rejected, err := leaves.Reject(ctx, leave.RejectLeaveRequest{ID: created.ID, ApproverID: adminID})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, rejected.Status)
	remaining, used = balance()
	assert.Equal(t, 10.0, remaining)
	assert.Equal(t, 0.0, used)

	t.Run("overlapping request is refused", func(t *testing.T) {
		_, err := leaves.ChangeStatus(ctx, leave.ChangeStatusRequest{ID: created.ID, Status: leave.StatusInReview})
		require.NoError(t, err)

		_, err = leaves.CreateLeave(ctx, leave.CreateLeaveRequest{
			CompanyID:   companyID,
			UserID:      userID,
			LeaveTypeID: alloc.Attributes[0].ID,
			StartDate:   start.AddDate(0, 0, 1).Format("2006-01-02"),
			EndDate:     start.AddDate(0, 0, 3).Format("2006-01-02"),
		}, nil)
		assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		days := 3.0
		_, err := allocations.UpdateAttribute(ctx, leave.UpdateAttributeRequest{ID: alloc.Attributes[0].ID, AllocatedDays: &days})
		require.NoError(t, err)

		next := firstMonday(year, time.December).AddDate(0, 0, 14)
		_, err = leaves.CreateLeave(ctx, leave.CreateLeaveRequest{
			CompanyID:   companyID,
			UserID:      userID,
			LeaveTypeID: alloc.Attributes[0].ID,
			StartDate:   next.Format("2006-01-02"),
			EndDate:     next.AddDate(0, 0, 4).Format("2006-01-02"),
		}, nil)
		assert.ErrorIs(t, err, leave.ErrInsufficientBalance, fmt.Sprintf("leave %s..%s", next, next.AddDate(0, 0, 4)))
	})
}
