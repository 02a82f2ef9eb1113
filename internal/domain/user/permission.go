package user

// Permission represents a named capability checked by middleware and services
type Permission string

const (
	PermissionManageUsers         Permission = "manage_users"
	PermissionApproveUsers        Permission = "approve_users"
	PermissionManageSettings      Permission = "manage_settings"
	PermissionViewAllAttendance   Permission = "view_all_attendance"
	PermissionViewTeamAttendance  Permission = "view_team_attendance"
	PermissionManageTeams         Permission = "manage_teams"
	PermissionApproveLeave        Permission = "approve_leave"
	PermissionManageAnnouncements Permission = "manage_announcements"
	PermissionManageBugReports    Permission = "manage_bug_reports"
	PermissionViewAuditLogs       Permission = "view_audit_logs"
)

var rolePermissions = map[Role]map[Permission]bool{
	RoleAdmin: {
		PermissionManageUsers:         true,
		PermissionApproveUsers:        true,
		PermissionManageSettings:      true,
		PermissionViewAllAttendance:   true,
		PermissionViewTeamAttendance:  true,
		PermissionManageTeams:         true,
		PermissionApproveLeave:        true,
		PermissionManageAnnouncements: true,
		PermissionManageBugReports:    true,
		PermissionViewAuditLogs:       true,
	},
	RoleHR: {
		PermissionManageUsers:         true,
		PermissionApproveUsers:        true,
		PermissionViewAllAttendance:   true,
		PermissionViewTeamAttendance:  true,
		PermissionManageTeams:         true,
		PermissionApproveLeave:        true,
		PermissionManageAnnouncements: true,
	},
	RoleManager: {
		PermissionViewTeamAttendance: true,
		PermissionManageTeams:        true,
		PermissionApproveLeave:       true,
	},
	RoleTeamLead: {
		PermissionViewTeamAttendance: true,
	},
	RoleEmployee: {},
}

// HasPermission reports whether role carries the given permission
func HasPermission(role Role, permission Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms[permission]
}

// CanViewAllAttendance reports whether role may read every attendance record
func CanViewAllAttendance(role Role) bool {
	return HasPermission(role, PermissionViewAllAttendance)
}

// CanViewTeamAttendance reports whether role may read direct reports' records
func CanViewTeamAttendance(role Role) bool {
	return HasPermission(role, PermissionViewTeamAttendance)
}
