package user

type Permission string

const (
	// Self service
	PermissionViewOwnProfile    Permission = "profile.view_own"
	PermissionAttendanceCheckIn Permission = "attendance.check_in"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"

	// Team oversight
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceStream  Permission = "attendance.stream"
	PermissionReportsExport     Permission = "reports.export"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleManager: {
		PermissionViewOwnProfile,
		PermissionAttendanceViewAll,
		PermissionAttendanceStream,
		PermissionReportsExport,
	},
	RoleEmployee: {
		PermissionViewOwnProfile,
		PermissionAttendanceCheckIn,
		PermissionAttendanceViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}
