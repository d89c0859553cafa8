package auth

const (
	RoleManager    = "Gerente"
	RoleSupervisor = "Gestor"
)

const (
	PermEmployeesRead   = "employees.read"
	PermEmployeesWrite  = "employees.write"
	PermEmployeesDelete = "employees.delete"
	PermEventsWrite     = "events.write"
	PermDocumentsWrite  = "documents.write"
	PermUsersManage     = "users.manage"
	PermMetricsRead     = "metrics.read"
)

var RolePermissions = map[string][]string{
	RoleManager: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermEmployeesDelete,
		PermEventsWrite,
		PermDocumentsWrite,
		PermUsersManage,
		PermMetricsRead,
	},
	RoleSupervisor: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermEventsWrite,
		PermDocumentsWrite,
	},
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

func HasPermission(role, permission string) bool {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true
		}
	}
	return false
}
