package attendance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx marks a context as already transactional so InTransaction runs inline.
type fakeTx struct{ pgx.Tx }

func txContext() context.Context {
	return postgresql.WithTx(context.Background(), fakeTx{})
}

type memAttendanceRepository struct {
	attendance.AttendanceRepository
	days map[string]attendance.Attendance
}

func (m *memAttendanceRepository) byDate(day time.Time) (attendance.Attendance, bool) {
	for _, a := range m.days {
		if a.PunchDate.Equal(day) {
			return a, true
		}
	}
	return attendance.Attendance{}, false
}

func (m *memAttendanceRepository) UpsertForDay(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	if found, ok := m.byDate(a.PunchDate); ok {
		return found, nil
	}
	a.ID = "att-" + a.PunchDate.Format("2006-01-02")
	m.days[a.ID] = a
	return a, nil
}

func (m *memAttendanceRepository) GetForDayForUpdate(ctx context.Context, companyID, userID string, day time.Time) (attendance.Attendance, error) {
	if found, ok := m.byDate(day); ok {
		return found, nil
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (m *memAttendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	a, ok := m.days[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (m *memAttendanceRepository) UpdateTotals(ctx context.Context, a attendance.Attendance) error {
	m.days[a.ID] = a
	return nil
}

type memPunchRepository struct {
	attendance.PunchRepository
	punches []attendance.UserPunch
}

func (m *memPunchRepository) Create(ctx context.Context, p attendance.UserPunch) (attendance.UserPunch, error) {
	p.ID = fmt.Sprintf("punch-%d", len(m.punches)+1)
	m.punches = append(m.punches, p)
	return p, nil
}

func (m *memPunchRepository) FindLatestOpen(ctx context.Context, attendanceID string) (attendance.UserPunch, error) {
	for i := len(m.punches) - 1; i >= 0; i-- {
		p := m.punches[i]
		if p.AttendanceID == attendanceID && p.IsOpen() {
			return p, nil
		}
	}
	return attendance.UserPunch{}, attendance.ErrNoOpenPunch
}

func (m *memPunchRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.UserPunch, error) {
	var out []attendance.UserPunch
	for _, p := range m.punches {
		if p.AttendanceID == attendanceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPunchRepository) Close(ctx context.Context, p attendance.UserPunch) error {
	for i := range m.punches {
		if m.punches[i].ID == p.ID {
			m.punches[i] = p
			return nil
		}
	}
	return attendance.ErrNoOpenPunch
}

// fakeWindow evaluates punches against a single assigned attribute.
type fakeWindow struct {
	attr     shift.ShiftAttribute
	assigned bool
}

func (f fakeWindow) IsInShift(ctx context.Context, companyUserID, companyID string, now time.Time) shift.WindowDecision {
	if !f.assigned {
		return shift.NoShift(shift.ReasonNoActiveShift, "no active shift assigned")
	}
	return shift.EvaluateWindow(f.attr, now, time.UTC)
}

func (f fakeWindow) ActiveAttribute(ctx context.Context, companyUserID, companyID string) (shift.ShiftAttribute, bool) {
	return f.attr, f.assigned
}

func minutes(n int) *int { return &n }

func clock(hour, minute int) time.Time {
	return time.Date(1970, 1, 1, hour, minute, 0, 0, time.UTC)
}

// dayShift runs 09:00 to 17:00 with a 30 minute break and 15 minutes of grace.
var dayShift = shift.ShiftAttribute{
	ID:                 "attr-day",
	ShiftName:          "Day",
	StartTime:          clock(9, 0),
	EndTime:            clock(17, 0),
	BreakDuration:      minutes(30),
	GracePeriodMinutes: minutes(15),
	IsActive:           true,
}

var nightShift = shift.ShiftAttribute{
	ID:                 "attr-night",
	ShiftName:          "Night",
	StartTime:          clock(22, 0),
	EndTime:            clock(6, 0),
	GracePeriodMinutes: minutes(15),
	IsActive:           true,
}

type punchFixture struct {
	svc     *AttendanceServiceImpl
	days    *memAttendanceRepository
	punches *memPunchRepository
}

func newPunchFixture(calendar *fakeCalendar, window fakeWindow) punchFixture {
	days := &memAttendanceRepository{days: map[string]attendance.Attendance{}}
	punches := &memPunchRepository{}
	svc := NewAttendanceService(nil, days, punches, NewEligibilityGate(calendar, time.UTC), window, time.UTC).(*AttendanceServiceImpl)
	svc.now = func() time.Time { return monday }
	return punchFixture{svc: svc, days: days, punches: punches}
}

func at(t time.Time) *time.Time { return &t }

func punchIn(when time.Time) attendance.PunchInRequest {
	return attendance.PunchInRequest{CompanyID: "co-1", UserID: "u-1", CompanyUserID: "cu-1", Time: at(when)}
}

func punchOut(when time.Time) attendance.PunchOutRequest {
	return attendance.PunchOutRequest{CompanyID: "co-1", UserID: "u-1", CompanyUserID: "cu-1", Time: at(when)}
}

func TestAttendanceService_PunchIn_Denied(t *testing.T) {
	tests := []struct {
		name       string
		calendar   fakeCalendar
		window     fakeWindow
		when       time.Time
		wantReason attendance.EligibilityReason
	}{
		{
			name:       "approved leave",
			calendar:   fakeCalendar{onLeave: true},
			window:     fakeWindow{attr: dayShift, assigned: true},
			when:       monday,
			wantReason: attendance.ReasonOnLeave,
		},
		{
			name:       "weekly off day",
			calendar:   fakeCalendar{weekDays: []int{1}},
			window:     fakeWindow{attr: dayShift, assigned: true},
			when:       monday,
			wantReason: attendance.ReasonWeeklyCompanyOff,
		},
		{
			name:       "outside shift window",
			window:     fakeWindow{attr: dayShift, assigned: true},
			when:       time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC),
			wantReason: attendance.ReasonOutsideShiftWindow,
		},
		{
			name:       "no shift assigned",
			window:     fakeWindow{},
			when:       monday,
			wantReason: attendance.ReasonNoActiveShift,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calendar := tt.calendar
			f := newPunchFixture(&calendar, tt.window)

			_, err := f.svc.PunchIn(txContext(), punchIn(tt.when))

			var denied *attendance.EligibilityError
			require.True(t, errors.As(err, &denied), "got %v", err)
			assert.Equal(t, tt.wantReason, denied.Reason)
			assert.Empty(t, f.punches.punches)
			assert.Empty(t, f.days.days)
		})
	}
}

func TestAttendanceService_PunchIn_OpenPunchExists(t *testing.T) {
	f := newPunchFixture(&fakeCalendar{}, fakeWindow{attr: dayShift, assigned: true})
	ctx := txContext()

	_, err := f.svc.PunchIn(ctx, punchIn(monday))
	require.NoError(t, err)

	_, err = f.svc.PunchIn(ctx, punchIn(monday.Add(10*time.Minute)))
	assert.ErrorIs(t, err, attendance.ErrOpenPunchExists)
	assert.Len(t, f.punches.punches, 1)
}

func TestAttendanceService_PunchIn_LateAfterGrace(t *testing.T) {
	f := newPunchFixture(&fakeCalendar{}, fakeWindow{attr: dayShift, assigned: true})

	res, err := f.svc.PunchIn(txContext(), punchIn(monday.Add(20*time.Minute)))

	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, res.Punch.Status)
	assert.Equal(t, attendance.StatusLate, res.Attendance.FinalStatus)
}

func TestAttendanceService_PunchOut_ComputesHours(t *testing.T) {
	f := newPunchFixture(&fakeCalendar{}, fakeWindow{attr: dayShift, assigned: true})
	ctx := txContext()

	_, err := f.svc.PunchIn(ctx, punchIn(monday))
	require.NoError(t, err)

	res, err := f.svc.PunchOut(ctx, punchOut(time.Date(2024, 1, 15, 17, 30, 0, 0, time.UTC)))
	require.NoError(t, err)

	require.NotNil(t, res.Punch.WorkHours)
	require.NotNil(t, res.Punch.Overtime)
	assert.Equal(t, 8.5, *res.Punch.WorkHours)
	assert.Equal(t, 1.0, *res.Punch.Overtime)
	assert.Equal(t, 8.5, res.Attendance.TotalWorkHours)
	assert.Equal(t, 1.0, res.Attendance.TotalOvertime)
	assert.Equal(t, attendance.StatusPresent, res.Attendance.FinalStatus)
}

func TestAttendanceService_PunchOut_AlreadyPunchedOut(t *testing.T) {
	f := newPunchFixture(&fakeCalendar{}, fakeWindow{attr: dayShift, assigned: true})
	ctx := txContext()

	_, err := f.svc.PunchIn(ctx, punchIn(monday))
	require.NoError(t, err)
	_, err = f.svc.PunchOut(ctx, punchOut(time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	_, err = f.svc.PunchOut(ctx, punchOut(time.Date(2024, 1, 15, 17, 5, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedOut)
}

func TestAttendanceService_PunchOut_WithoutPunchIn(t *testing.T) {
	f := newPunchFixture(&fakeCalendar{}, fakeWindow{attr: dayShift, assigned: true})

	_, err := f.svc.PunchOut(txContext(), punchOut(time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)))

	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceService_PunchOut_ClosesPreviousDay(t *testing.T) {
	f := newPunchFixture(&fakeCalendar{}, fakeWindow{attr: nightShift, assigned: true})
	ctx := txContext()

	in, err := f.svc.PunchIn(ctx, punchIn(time.Date(2024, 1, 15, 22, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	res, err := f.svc.PunchOut(ctx, punchOut(time.Date(2024, 1, 16, 6, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	assert.Equal(t, in.Attendance.ID, res.Attendance.ID)
	assert.Equal(t, "2024-01-15", res.Attendance.PunchDate)
	require.NotNil(t, res.Punch.WorkHours)
	assert.Equal(t, 8.0, *res.Punch.WorkHours)
	assert.Equal(t, 0.0, *res.Punch.Overtime)
	assert.Len(t, f.days.days, 1)
}
