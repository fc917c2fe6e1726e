package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/shift"
)

type AttendanceService interface {
	PunchIn(ctx context.Context, req PunchInRequest) (PunchResult, error)
	PunchOut(ctx context.Context, req PunchOutRequest) (PunchResult, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	FindUserAttendance(ctx context.Context, filter UserAttendanceFilter) ([]AttendanceResponse, error)
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)
	DeleteAttendance(ctx context.Context, id string) error
	Summary(ctx context.Context, userID, companyID, month string) (SummaryResponse, error)
	CheckStatus(ctx context.Context, companyID, userID string, at time.Time) (EligibilityResult, error)
	CheckShift(ctx context.Context, companyUserID, companyID string) shift.WindowDecision
}
