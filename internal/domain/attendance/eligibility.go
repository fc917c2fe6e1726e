package attendance

import (
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"
)

type EligibilityReason string

const (
	ReasonOnLeave            EligibilityReason = "ON_LEAVE"
	ReasonCompanyOffDay      EligibilityReason = "COMPANY_OFF_DAY"
	ReasonUserOffDay         EligibilityReason = "USER_SPECIFIC_OFF_DAY"
	ReasonWeeklyCompanyOff   EligibilityReason = "WEEKLY_COMPANY_OFF"
	ReasonEligible           EligibilityReason = "ELIGIBLE_FOR_PUNCH"
	ReasonOutsideShiftWindow EligibilityReason = "OUTSIDE_SHIFT_WINDOW"
	ReasonNoActiveShift      EligibilityReason = "NO_ACTIVE_SHIFT"
)

type EligibilityResult struct {
	CanPunch bool              `json:"can_punch"`
	Reason   EligibilityReason `json:"reason"`
	Message  string            `json:"message"`
}

// EligibilityError is returned when a punch-in is denied.
type EligibilityError struct {
	Reason  EligibilityReason
	Message string
}

func (e *EligibilityError) Error() string {
	return e.Message
}

func (e *EligibilityError) Is(target error) bool {
	return target == apperror.Eligibility
}

func Deny(reason EligibilityReason, message string) *EligibilityError {
	return &EligibilityError{Reason: reason, Message: message}
}
