package report

import "context"

// ReportService renders attendance exports
type ReportService interface {
	ExportAttendance(ctx context.Context, req ExportRequest) (ExportFile, error)
}
