package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusPending, StatusApproved},
		{StatusPending, StatusInReview},
		{StatusInReview, StatusRejected},
		{StatusApproved, StatusRejected},
		{StatusApproved, StatusCancelled},
		{StatusRejected, StatusApproved},
		{StatusCancelled, StatusPending},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	denied := [][2]Status{
		{StatusApproved, StatusPending},
		{StatusApproved, StatusInReview},
		{StatusInReview, StatusPending},
		{StatusRejected, StatusCancelled},
		{StatusCancelled, StatusApproved},
		{StatusPending, StatusPending},
		{Status("DONE"), StatusApproved},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

func TestStatus_Flags(t *testing.T) {
	assert.True(t, StatusInReview.Blocking())
	assert.False(t, StatusRejected.Blocking())
	assert.True(t, StatusApproved.Initial())
	assert.False(t, StatusCancelled.Initial())
	assert.False(t, Status("DONE").Valid())
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkingDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"monday to friday", date(2024, 1, 15), date(2024, 1, 19), 5},
		{"friday to monday", date(2024, 1, 19), date(2024, 1, 22), 2},
		{"weekend only", date(2024, 1, 20), date(2024, 1, 21), 0},
		{"two weeks", date(2024, 1, 15), date(2024, 1, 28), 10},
		{"single weekday", date(2024, 1, 17), date(2024, 1, 17), 1},
		{"reversed", date(2024, 1, 19), date(2024, 1, 15), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WorkingDays(tt.start, tt.end))
		})
	}
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(date(2024, 1, 15), date(2024, 1, 19), date(2024, 1, 19), date(2024, 1, 22)))
	assert.True(t, Overlaps(date(2024, 1, 15), date(2024, 1, 19), date(2024, 1, 10), date(2024, 1, 30)))
	assert.False(t, Overlaps(date(2024, 1, 15), date(2024, 1, 19), date(2024, 1, 20), date(2024, 1, 22)))
}
