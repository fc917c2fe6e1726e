package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(h, m int) time.Time {
	return time.Date(1970, 1, 1, h, m, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func dayShift() ShiftAttribute {
	return ShiftAttribute{
		ID:                 "attr-1",
		ShiftName:          "Morning",
		StartTime:          clock(9, 0),
		EndTime:            clock(17, 0),
		BreakDuration:      intPtr(30),
		GracePeriodMinutes: intPtr(15),
		IsActive:           true,
	}
}

func TestEvaluateWindow_DayShift(t *testing.T) {
	attr := dayShift()
	day := func(h, m int) time.Time { return time.Date(2024, 1, 15, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		now     time.Time
		allowed bool
	}{
		{"inside", day(12, 0), true},
		{"exact start", day(9, 0), true},
		{"within leading grace", day(8, 50), true},
		{"before grace", day(8, 44), false},
		{"within trailing grace", day(17, 15), true},
		{"after grace", day(17, 16), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateWindow(attr, tt.now, time.UTC)
			assert.Equal(t, tt.allowed, got.Allowed)
			require.NotNil(t, got.Details)
			assert.Equal(t, day(8, 45), got.Details.AdjustedStart)
			assert.Equal(t, day(17, 15), got.Details.AdjustedEnd)
			if tt.allowed {
				assert.Equal(t, ReasonInShiftWindow, got.Reason)
			} else {
				assert.Equal(t, ReasonOutsideShiftWindow, got.Reason)
			}
		})
	}
}

func TestEvaluateWindow_OvernightShift(t *testing.T) {
	attr := ShiftAttribute{ShiftName: "Night", StartTime: clock(22, 0), EndTime: clock(6, 0)}

	lateEvening := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)
	got := EvaluateWindow(attr, lateEvening, time.UTC)
	assert.True(t, got.Allowed)
	assert.Equal(t, time.Date(2024, 1, 16, 6, 0, 0, 0, time.UTC), got.Details.ShiftEnd)

	earlyEvening := time.Date(2024, 1, 15, 21, 0, 0, 0, time.UTC)
	assert.False(t, EvaluateWindow(attr, earlyEvening, time.UTC).Allowed)
}

func TestEvaluateWindow_EqualBoundsSpanFullDay(t *testing.T) {
	attr := ShiftAttribute{ShiftName: "Round the clock", StartTime: clock(8, 0), EndTime: clock(8, 0)}

	start, end := attr.Project(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestEvaluateWindow_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	attr := dayShift()

	// 02:30 UTC is 09:30 at UTC+7.
	now := time.Date(2024, 1, 15, 2, 30, 0, 0, time.UTC)
	assert.True(t, EvaluateWindow(attr, now, loc).Allowed)
	assert.False(t, EvaluateWindow(attr, now, time.UTC).Allowed)
}

func TestShiftAttribute_ScheduledHours(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "8", dayShift().ScheduledHours(day, time.UTC).String())

	night := ShiftAttribute{StartTime: clock(22, 0), EndTime: clock(6, 0)}
	assert.Equal(t, "8", night.ScheduledHours(day, time.UTC).String())
}

func TestNoShift(t *testing.T) {
	got := NoShift(ReasonNoActiveShift, "no active shift assigned")
	assert.False(t, got.Allowed)
	assert.Nil(t, got.Details)
	assert.Equal(t, ReasonNoActiveShift, got.Reason)
}

func TestCreateShiftAttributeRequest_ToAttribute_KeepsWallClock(t *testing.T) {
	req := CreateShiftAttributeRequest{ShiftName: "Jakarta day", StartTime: "09:00+07:00", EndTime: "2024-03-01T17:00:00+07:00"}

	attr := req.ToAttribute()

	assert.Equal(t, clock(9, 0), attr.StartTime)
	assert.Equal(t, clock(17, 0), attr.EndTime)
	assert.Equal(t, 8.0, attr.ScheduledHours(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), time.UTC).InexactFloat64())
}
