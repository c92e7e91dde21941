package user

type Role string

const (
	RoleManager  Role = "manager"  // Oversees the team's attendance
	RoleEmployee Role = "employee" // Checks in and out
)

func (r Role) IsValid() bool {
	return r == RoleManager || r == RoleEmployee
}

// CodePrefix is the prefix of employee codes issued for the role.
func (r Role) CodePrefix() string {
	if r == RoleManager {
		return "MGR"
	}
	return "EMP"
}
