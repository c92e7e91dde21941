package report

import (
	"errors"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ExportRequest filters the records to export. EmployeeID is the employee's id.
type ExportRequest struct {
	attendance.RangeQuery
	EmployeeID *string `json:"employee_id,omitempty"`
	Format     Format  `json:"format"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	var rangeErrs validator.ValidationErrors
	if errors.As(r.RangeQuery.Validate(), &rangeErrs) {
		errs = append(errs, rangeErrs...)
	}

	if r.Format == "" {
		r.Format = FormatCSV
	}
	if r.Format != FormatCSV && r.Format != FormatXLSX {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of: csv, xlsx",
		})
	}

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ExportRow is one line of the attendance export. Missing times read "-".
type ExportRow struct {
	EmployeeCode string
	Name         string
	Department   string
	Date         string
	CheckIn      string
	CheckOut     string
	Status       string
	TotalHours   int
}

// ExportHeader is the column header shared by every export format.
var ExportHeader = []string{"Employee ID", "Name", "Department", "Date", "Check In", "Check Out", "Status", "Total Hours"}

// ExportFile is a rendered export ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}
