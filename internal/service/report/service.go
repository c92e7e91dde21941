package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	sheetName       = "Attendance"
)

type ReportServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
}

func NewReportService(attendanceRepo attendance.AttendanceRepository, employeeRepo employee.EmployeeRepository) report.ReportService {
	return &ReportServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
	}
}

// ExportAttendance implements report.ReportService.
func (s *ReportServiceImpl) ExportAttendance(ctx context.Context, req report.ExportRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	filter := attendance.Filter{}
	if period, ok := req.Period(); ok {
		filter = filter.WithPeriod(period)
	}

	var emp *employee.Employee
	if req.EmployeeID != nil {
		found, err := s.EmployeeRepository.GetByID(ctx, *req.EmployeeID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return report.ExportFile{}, employee.ErrEmployeeNotFound
			}
			return report.ExportFile{}, fmt.Errorf("failed to get employee: %w", err)
		}
		emp = &found
		filter.EmployeeID = &found.ID
	}

	records, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to list attendances for export: %w", err)
	}

	rows := make([]report.ExportRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, toExportRow(r))
	}

	file := report.ExportFile{
		Filename: exportFilename(req, emp),
		Rows:     len(rows),
	}

	switch req.Format {
	case report.FormatCSV:
		file.ContentType = contentTypeCSV
		file.Body, err = renderCSV(rows)
	case report.FormatXLSX:
		file.ContentType = contentTypeXLSX
		file.Body, err = renderXLSX(rows)
	default:
		return report.ExportFile{}, report.ErrUnsupportedFormat
	}
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	return file, nil
}

func toExportRow(r attendance.Record) report.ExportRow {
	row := report.ExportRow{
		Date:       attendance.DateKey(r.Date),
		CheckIn:    "-",
		CheckOut:   "-",
		Status:     string(r.Status),
		TotalHours: r.TotalHours,
	}
	if r.EmployeeCode != nil {
		row.EmployeeCode = *r.EmployeeCode
	}
	if r.EmployeeName != nil {
		row.Name = *r.EmployeeName
	}
	if r.EmployeeDepartment != nil {
		row.Department = *r.EmployeeDepartment
	}
	if r.CheckIn != nil {
		row.CheckIn = r.CheckIn.String()
	}
	if r.CheckOut != nil {
		row.CheckOut = r.CheckOut.String()
	}
	return row
}

// exportFilename follows attendance-<start>-to-<end>[-<code>].<format>.
func exportFilename(req report.ExportRequest, emp *employee.Employee) string {
	name := "attendance"
	switch {
	case req.Date != nil && *req.Date != "":
		name += "-" + *req.Date
	case req.StartDate != nil && *req.StartDate != "":
		name += "-" + *req.StartDate + "-to-" + *req.EndDate
	default:
		name += "-all"
	}
	if emp != nil {
		name += "-" + emp.EmployeeCode
	}
	return name + "." + string(req.Format)
}

func rowValues(row report.ExportRow) []string {
	return []string{
		row.EmployeeCode,
		row.Name,
		row.Department,
		row.Date,
		row.CheckIn,
		row.CheckOut,
		row.Status,
		strconv.Itoa(row.TotalHours),
	}
}

func renderCSV(rows []report.ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(report.ExportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(rowValues(row)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(rows []report.ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range report.ExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []any{row.EmployeeCode, row.Name, row.Department, row.Date, row.CheckIn, row.CheckOut, row.Status, row.TotalHours}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "H", 16); err != nil {
		return nil, err
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
