package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses by kind.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var eligibilityErr *attendance.EligibilityError
	if errors.As(err, &eligibilityErr) {
		NotEligible(w, eligibilityErr.Message, map[string]string{"reason": string(eligibilityErr.Reason)})
		return
	}

	switch apperror.KindOf(err) {
	case apperror.Validation:
		BadRequest(w, message(err), nil)
	case apperror.NotFound:
		NotFound(w, message(err))
	case apperror.Conflict:
		Conflict(w, message(err))
	case apperror.InsufficientBalance:
		InsufficientBalance(w, err.Error())
	case apperror.Eligibility:
		NotEligible(w, message(err), nil)
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

// message prefers the domain sentinel text over wrapping context.
func message(err error) string {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
