package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"already checked in", attendance.ErrAlreadyCheckedIn, http.StatusBadRequest, "ALREADY_CHECKED_IN"},
		{"no check-in record", attendance.ErrNoCheckInRecord, http.StatusNotFound, "NO_CHECK_IN_RECORD"},
		{"not checked in", attendance.ErrNotCheckedInYet, http.StatusBadRequest, "NOT_CHECKED_IN"},
		{"already checked out", attendance.ErrAlreadyCheckedOut, http.StatusBadRequest, "ALREADY_CHECKED_OUT"},
		{"invalid time order", attendance.ErrInvalidTimeOrder, http.StatusBadRequest, "INVALID_TIME_ORDER"},
		{"duplicate record", attendance.ErrDuplicateRecord, http.StatusConflict, "CONFLICT"},
		{"wrapped store failure", fmt.Errorf("failed to list: %w", attendance.ErrStoreUnavailable), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"employee not found", employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"missing claim", jwt.ErrMissingClaim, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"validation", validator.ValidationErrors{{Field: "month", Message: "month must be between 1 and 12"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, c.err)

			assert.Equal(t, c.status, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, c.code, body.Error.Code)
		})
	}
}
