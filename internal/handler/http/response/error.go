package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance state errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Error(w, http.StatusBadRequest, "ALREADY_CHECKED_IN", "Already checked in today")
	case errors.Is(err, attendance.ErrNoCheckInRecord):
		Error(w, http.StatusNotFound, "NO_CHECK_IN_RECORD", "No check-in record found for today")
	case errors.Is(err, attendance.ErrNotCheckedInYet):
		Error(w, http.StatusBadRequest, "NOT_CHECKED_IN", "Please check in first")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Error(w, http.StatusBadRequest, "ALREADY_CHECKED_OUT", "Already checked out today")
	case errors.Is(err, attendance.ErrInvalidTimeOrder):
		Error(w, http.StatusBadRequest, "INVALID_TIME_ORDER", "Check-out time is earlier than check-in time")
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "Attendance record already exists for this day")

	// Auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwt.ErrMissingClaim):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// Employee errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")

	// Access errors
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrEmployeeAccessRequired):
		Forbidden(w, "Employee access required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Report errors
	case errors.Is(err, report.ErrUnsupportedFormat):
		BadRequest(w, "Unsupported export format", nil)

	case errors.Is(err, attendance.ErrStoreUnavailable):
		slog.Error("Attendance store unavailable", "error", err)
		ServiceUnavailable(w, "Attendance store is temporarily unavailable")

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
