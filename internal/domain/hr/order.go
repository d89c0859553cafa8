package hr

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// InsertEmployee places emp in a roster kept in name order, after any
// employee with an equal name.
func InsertEmployee(list []Employee, emp Employee) []Employee {
	c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	idx := len(list)
	for i := range list {
		if c.CompareString(list[i].Name, emp.Name) > 0 {
			idx = i
			break
		}
	}
	return insertAt(list, idx, emp)
}

// InsertEvent places ev in a history kept newest first: by date, then by
// creation time. An event with no creation time leads its date.
func InsertEvent(list []Event, ev Event) []Event {
	idx := len(list)
	for i := range list {
		if !eventBefore(list[i], ev) {
			idx = i
			break
		}
	}
	return insertAt(list, idx, ev)
}

func eventBefore(a, b Event) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	if a.CreatedAt == nil || b.CreatedAt == nil {
		return false
	}
	return a.CreatedAt.After(*b.CreatedAt)
}

func insertAt[T any](list []T, idx int, item T) []T {
	list = append(list, item)
	copy(list[idx+1:], list[idx:])
	list[idx] = item
	return list
}
