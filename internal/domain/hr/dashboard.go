package hr

const (
	recentEventLimit     = 5
	removedEmployeeLabel = "Funcionário Removido"
)

type RecentEvent struct {
	Event
	EmployeeName string `json:"employeeName"`
}

type Summary struct {
	Active   int           `json:"activeCount"`
	Events   int           `json:"eventCount"`
	Inactive int           `json:"inactiveCount"`
	Total    int           `json:"totalCount"`
	Recent   []RecentEvent `json:"recentEvents"`
}

// Summarize expects events ordered newest first.
func Summarize(employees []Employee, events []Event) Summary {
	names := make(map[string]string, len(employees))
	active := 0
	for _, emp := range employees {
		names[emp.ID] = emp.Name
		if emp.Status == StatusActive {
			active++
		}
	}

	recent := make([]RecentEvent, 0, recentEventLimit)
	for i, ev := range events {
		if i == recentEventLimit {
			break
		}
		name, ok := names[ev.EmployeeID]
		if !ok || name == "" {
			name = removedEmployeeLabel
		}
		recent = append(recent, RecentEvent{Event: ev, EmployeeName: name})
	}

	return Summary{
		Active:   active,
		Events:   len(events),
		Inactive: len(employees) - active,
		Total:    len(employees),
		Recent:   recent,
	}
}
