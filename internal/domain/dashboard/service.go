package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetEmployeeDashboard returns the authenticated employee's overview
	GetEmployeeDashboard(ctx context.Context) (*EmployeeDashboardResponse, error)

	// GetManagerDashboard returns today's team overview, served from cache when fresh
	GetManagerDashboard(ctx context.Context) (*ManagerDashboardResponse, error)

	// Invalidate drops cached team overviews after attendance changes
	Invalidate(ctx context.Context)
}
