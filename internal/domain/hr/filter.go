package hr

import "strings"

// Status filter values that select every employee.
const (
	FilterAll       = "Todos"
	FilterAllStatus = "Todos Status"
)

// FilterEmployees keeps the employees whose name contains search (case
// insensitive) or whose CPF contains it verbatim, and whose status matches.
func FilterEmployees(employees []Employee, search, status string) []Employee {
	needle := strings.ToLower(search)
	out := make([]Employee, 0, len(employees))
	for _, emp := range employees {
		nameMatch := strings.Contains(strings.ToLower(emp.Name), needle)
		cpfMatch := emp.CPF != nil && strings.Contains(*emp.CPF, search)
		if !nameMatch && !cpfMatch {
			continue
		}
		if !allStatuses(status) && emp.Status != status {
			continue
		}
		out = append(out, emp)
	}
	return out
}

func EventsFor(events []Event, employeeID string) []Event {
	out := make([]Event, 0)
	for _, ev := range events {
		if ev.EmployeeID == employeeID {
			out = append(out, ev)
		}
	}
	return out
}

func allStatuses(status string) bool {
	return status == "" || status == FilterAll || status == FilterAllStatus
}

func ValidStatus(status string) bool {
	for _, s := range EmployeeStatuses {
		if s == status {
			return true
		}
	}
	return false
}
