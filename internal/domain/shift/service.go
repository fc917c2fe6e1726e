package shift

import (
	"context"
	"time"
)

type ShiftService interface {
	CreateShift(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)
	ListShifts(ctx context.Context, filter ShiftFilter) (ListShiftResponse, error)
	GetShift(ctx context.Context, id string) (ShiftResponse, error)
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)
	DeleteShift(ctx context.Context, id string) error
	AssignShift(ctx context.Context, req AssignShiftRequest) (AssignShiftResponse, error)
	UpdateAttribute(ctx context.Context, req UpdateShiftAttributeRequest) (ShiftAttributeResponse, error)
	DeleteAttribute(ctx context.Context, id string) error
}

// WindowEvaluator answers whether a company user may punch in at now.
// It never fails; lookup problems surface as a denied decision.
type WindowEvaluator interface {
	IsInShift(ctx context.Context, companyUserID, companyID string, now time.Time) WindowDecision
	ActiveAttribute(ctx context.Context, companyUserID, companyID string) (ShiftAttribute, bool)
}
