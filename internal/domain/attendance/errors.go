package attendance

import "github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"

var (
	ErrAttendanceNotFound = apperror.New(apperror.NotFound, "attendance not found")
	ErrNoOpenPunch        = apperror.New(apperror.NotFound, "no open punch found for today")
	ErrOpenPunchExists    = apperror.New(apperror.Conflict, "user already has an open punch for today")
	ErrAlreadyPunchedOut  = apperror.New(apperror.Conflict, "attendance already has punch out")
	ErrCorruptLocation    = apperror.New(apperror.Internal, "stored punch location is corrupt")
)
