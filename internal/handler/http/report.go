package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	ExportAttendance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// ExportAttendance handles GET /attendance/export
// Query params: date | start_date & end_date, employee_id (uuid), format (csv, xlsx)
func (h *reportHandlerImpl) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	req := report.ExportRequest{
		RangeQuery: parseRangeQuery(r),
		EmployeeID: optionalQuery(r, "employee_id"),
		Format:     report.Format(r.URL.Query().Get("format")),
	}

	file, err := h.reportService.ExportAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Attendance exported", "filename", file.Filename, "rows", file.Rows)

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	w.Header().Set("X-Total-Rows", strconv.Itoa(file.Rows))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Body)
}
