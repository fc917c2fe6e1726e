package shift

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
)

type stubShiftRepository struct {
	shift.ShiftRepository
	active shift.ActiveAssignment
	err    error
}

func (s *stubShiftRepository) FindActiveAssignment(ctx context.Context, companyUserID, companyID string) (shift.ActiveAssignment, error) {
	return s.active, s.err
}

func TestWindowEvaluator_IsInShift_NoAssignment(t *testing.T) {
	w := NewWindowEvaluator(&stubShiftRepository{err: shift.ErrNoActiveShift}, nil)

	got := w.IsInShift(context.Background(), "cu-1", "co-1", time.Now())

	assert.False(t, got.Allowed)
	assert.Equal(t, shift.ReasonNoActiveShift, got.Reason)
}

func TestWindowEvaluator_IsInShift_LookupErrorDenies(t *testing.T) {
	w := NewWindowEvaluator(&stubShiftRepository{err: errors.New("connection refused")}, time.UTC)

	got := w.IsInShift(context.Background(), "cu-1", "co-1", time.Now())

	assert.False(t, got.Allowed)
	assert.Equal(t, shift.ReasonShiftLookupFailed, got.Reason)
	assert.NotContains(t, got.Message, "connection refused")
}

func TestWindowEvaluator_IsInShift_InsideWindow(t *testing.T) {
	repo := &stubShiftRepository{active: shift.ActiveAssignment{
		CompanyID: "co-1",
		Attribute: shift.ShiftAttribute{
			ID:        "attr-1",
			ShiftName: "Morning",
			StartTime: time.Date(1970, 1, 1, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(1970, 1, 1, 17, 0, 0, 0, time.UTC),
			IsActive:  true,
		},
	}}
	w := NewWindowEvaluator(repo, time.UTC)

	got := w.IsInShift(context.Background(), "cu-1", "co-1", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	assert.True(t, got.Allowed)
	assert.Equal(t, "attr-1", got.Details.ShiftAttributeID)

	attr, ok := w.ActiveAttribute(context.Background(), "cu-1", "co-1")
	assert.True(t, ok)
	assert.Equal(t, "Morning", attr.ShiftName)
}
