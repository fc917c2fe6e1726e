package leave

import "github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"

var (
	ErrLeaveNotFound          = apperror.New(apperror.NotFound, "leave not found")
	ErrLeaveAttributeNotFound = apperror.New(apperror.NotFound, "leave attribute not found")
	ErrLeaveRecordNotFound    = apperror.New(apperror.NotFound, "leave record not found for this year")
	ErrCarryForwardNotFound   = apperror.New(apperror.NotFound, "carry forward entry not found")
	ErrMembershipNotFound     = apperror.New(apperror.NotFound, "user is not a member of this company")

	ErrInvalidLeaveDays        = apperror.New(apperror.Validation, "leave must cover at least one working day")
	ErrInvalidDateRange        = apperror.New(apperror.Validation, "end date must be after start date")
	ErrRoleMismatch            = apperror.New(apperror.Validation, "leave type is not allocated to the user's role")
	ErrInactiveLeaveType       = apperror.New(apperror.Validation, "leave type is not active")
	ErrInvalidTransition       = apperror.New(apperror.Validation, "leave status transition is not allowed")
	ErrCannotCancelApproved    = apperror.New(apperror.Validation, "approved leave cannot be cancelled, reject it instead")
	ErrDatesLocked             = apperror.New(apperror.Validation, "dates of an approved leave cannot be changed")
	ErrInvalidCarryForwardDays = apperror.New(apperror.Validation, "carry forward days must be greater than zero")
	ErrCarryForwardInUse       = apperror.New(apperror.Validation, "removing carry forward would make the balance negative")
	ErrAllocationBelowUsage    = apperror.New(apperror.Validation, "allocated days would drop below days already used")
	ErrPastYear                = apperror.New(apperror.Validation, "allocation year must not be in the past")
	ErrInvalidAttachment       = apperror.New(apperror.Validation, "attachment type or size is not allowed")

	ErrOverlappingLeave        = apperror.New(apperror.Conflict, "leave overlaps an existing request")
	ErrDuplicateLeaveAttribute = apperror.New(apperror.Conflict, "leave type already allocated for this role and year")

	ErrInsufficientBalance = apperror.New(apperror.InsufficientBalance, "insufficient leave balance")

	ErrLedgerOutOfBalance = apperror.New(apperror.Internal, "leave ledger is out of balance")
)
