package attendance

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
)

// StreamTopic is the hub topic managers subscribe to.
const StreamTopic = "attendance"

// PublishTo forwards attendance changes to the live feed.
func PublishTo(hub *sse.Hub) Listener {
	return func(_ context.Context, event string, record attendance.AttendanceResponse) {
		hub.Publish(sse.Event{Topic: StreamTopic, Event: event, Data: record})
	}
}

// InvalidateDashboard drops the cached manager overview.
func InvalidateDashboard(svc dashboard.DashboardService) Listener {
	return func(ctx context.Context, _ string, _ attendance.AttendanceResponse) {
		svc.Invalidate(ctx)
	}
}
