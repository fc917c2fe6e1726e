package shift

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/shift"
)

type WindowEvaluatorImpl struct {
	shiftRepo shift.ShiftRepository
	loc       *time.Location
}

// NewWindowEvaluator projects shift times of day in loc. A nil loc means UTC.
func NewWindowEvaluator(shiftRepo shift.ShiftRepository, loc *time.Location) shift.WindowEvaluator {
	if loc == nil {
		loc = time.UTC
	}
	return &WindowEvaluatorImpl{shiftRepo: shiftRepo, loc: loc}
}

// IsInShift implements shift.WindowEvaluator.
func (w *WindowEvaluatorImpl) IsInShift(ctx context.Context, companyUserID, companyID string, now time.Time) shift.WindowDecision {
	active, err := w.shiftRepo.FindActiveAssignment(ctx, companyUserID, companyID)
	if err != nil {
		if errors.Is(err, shift.ErrNoActiveShift) {
			return shift.NoShift(shift.ReasonNoActiveShift, "no active shift assigned to this user in this company")
		}
		slog.Error("shift lookup failed", "company_user_id", companyUserID, "company_id", companyID, "error", err)
		return shift.NoShift(shift.ReasonShiftLookupFailed, "unable to verify shift schedule")
	}
	return shift.EvaluateWindow(active.Attribute, now, w.loc)
}

// ActiveAttribute implements shift.WindowEvaluator.
func (w *WindowEvaluatorImpl) ActiveAttribute(ctx context.Context, companyUserID, companyID string) (shift.ShiftAttribute, bool) {
	active, err := w.shiftRepo.FindActiveAssignment(ctx, companyUserID, companyID)
	if err != nil {
		if !errors.Is(err, shift.ErrNoActiveShift) {
			slog.Error("shift lookup failed", "company_user_id", companyUserID, "company_id", companyID, "error", err)
		}
		return shift.ShiftAttribute{}, false
	}
	return active.Attribute, true
}
