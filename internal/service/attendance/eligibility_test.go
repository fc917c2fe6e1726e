package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCalendar struct {
	onLeave    bool
	companyOff bool
	userOff    bool
	weekDays   []int
	err        error

	calls []string
}

func (f *fakeCalendar) HasApprovedLeave(ctx context.Context, companyID, userID string, day time.Time) (bool, error) {
	f.calls = append(f.calls, "leave")
	return f.onLeave, f.err
}

func (f *fakeCalendar) HasCompanyOffDay(ctx context.Context, companyID string, day time.Time) (bool, error) {
	f.calls = append(f.calls, "company")
	return f.companyOff, nil
}

func (f *fakeCalendar) HasUserOffDay(ctx context.Context, companyID, userID string, day time.Time) (bool, error) {
	f.calls = append(f.calls, "user")
	return f.userOff, nil
}

func (f *fakeCalendar) WeeklyOffDays(ctx context.Context, companyID string) ([]int, error) {
	f.calls = append(f.calls, "weekly")
	return f.weekDays, nil
}

// Monday
var monday = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func TestEligibilityGate_Check_Order(t *testing.T) {
	tests := []struct {
		name      string
		source    fakeCalendar
		want      attendance.EligibilityReason
		wantCalls []string
	}{
		{
			name:      "approved leave wins over everything",
			source:    fakeCalendar{onLeave: true, companyOff: true, userOff: true, weekDays: []int{1}},
			want:      attendance.ReasonOnLeave,
			wantCalls: []string{"leave"},
		},
		{
			name:      "company off day before personal off day",
			source:    fakeCalendar{companyOff: true, userOff: true},
			want:      attendance.ReasonCompanyOffDay,
			wantCalls: []string{"leave", "company"},
		},
		{
			name:      "personal off day",
			source:    fakeCalendar{userOff: true, weekDays: []int{1}},
			want:      attendance.ReasonUserOffDay,
			wantCalls: []string{"leave", "company", "user"},
		},
		{
			name:      "weekly off day",
			source:    fakeCalendar{weekDays: []int{0, 1}},
			want:      attendance.ReasonWeeklyCompanyOff,
			wantCalls: []string{"leave", "company", "user", "weekly"},
		},
		{
			name:      "eligible",
			source:    fakeCalendar{weekDays: []int{0, 6}},
			want:      attendance.ReasonEligible,
			wantCalls: []string{"leave", "company", "user", "weekly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.source
			gate := NewEligibilityGate(&src, time.UTC)

			got, err := gate.Check(context.Background(), "co-1", "u-1", monday)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Reason)
			assert.Equal(t, tt.want == attendance.ReasonEligible, got.CanPunch)
			assert.Equal(t, tt.wantCalls, src.calls)
		})
	}
}

func TestEligibilityGate_Check_UsesLocationForWeekday(t *testing.T) {
	// 20:00 UTC on Sunday is already Monday at UTC+7.
	sundayEvening := time.Date(2024, 1, 14, 20, 0, 0, 0, time.UTC)
	src := &fakeCalendar{weekDays: []int{1}}

	got, err := NewEligibilityGate(src, time.FixedZone("UTC+7", 7*60*60)).Check(context.Background(), "co-1", "u-1", sundayEvening)
	require.NoError(t, err)
	assert.Equal(t, attendance.ReasonWeeklyCompanyOff, got.Reason)

	got, err = NewEligibilityGate(src, time.UTC).Check(context.Background(), "co-1", "u-1", sundayEvening)
	require.NoError(t, err)
	assert.True(t, got.CanPunch)
}

func TestEligibilityGate_Check_PropagatesStoreError(t *testing.T) {
	src := &fakeCalendar{err: errors.New("connection reset")}

	_, err := NewEligibilityGate(src, nil).Check(context.Background(), "co-1", "u-1", monday)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "approved leave")
}
