package workspace

import (
	"context"
	"slices"

	"gourmetto/internal/domain/gateway"
	"gourmetto/internal/domain/hr"
	"gourmetto/internal/domain/record"
)

const (
	msgEmployeeCreated = "Funcionário registrado com sucesso."
	msgEmployeeUpdated = "Cadastro atualizado com sucesso."
	msgEmployeeDeleted = "Colaborador removido da base."
	msgStatusChanged   = "Status alterado para "
	msgEventCreated    = "Evento operacional registrado."
	msgEventUpdated    = "Evento operacional atualizado."
	msgEventDeleted    = "Evento operacional removido."
	msgDocumentCreated = "Documento registrado."
	msgDocumentDeleted = "Documento removido."
)

func (w *Workspace) CreateEmployee(ctx context.Context, emp hr.Employee) (hr.Employee, error) {
	if emp.Status == "" {
		emp.Status = hr.StatusActive
	}
	rec, err := record.From(emp)
	if err != nil {
		return hr.Employee{}, err
	}
	stored, err := w.store.Create(ctx, gateway.Employees, rec)
	if err != nil {
		return hr.Employee{}, w.fail(err)
	}
	var saved hr.Employee
	if err := record.Decode(stored, &saved); err != nil {
		return hr.Employee{}, err
	}

	w.mu.Lock()
	w.employees = hr.InsertEmployee(w.employees, saved)
	w.mu.Unlock()
	w.guard.Success(msgEmployeeCreated)
	return saved, nil
}

// UpdateEmployee patches the fields present in patch. Nil values are
// dropped before they reach the store, so they never clear a column.
func (w *Workspace) UpdateEmployee(ctx context.Context, id string, patch record.Record) (hr.Employee, error) {
	saved, err := w.patchEmployee(ctx, id, patch)
	if err != nil {
		return hr.Employee{}, err
	}
	w.guard.Success(msgEmployeeUpdated)
	return saved, nil
}

func (w *Workspace) SetStatus(ctx context.Context, id, status string) (hr.Employee, error) {
	if !hr.ValidStatus(status) {
		return hr.Employee{}, ErrInvalidStatus
	}
	saved, err := w.patchEmployee(ctx, id, record.Record{"status": status})
	if err != nil {
		return hr.Employee{}, err
	}
	w.guard.Success(msgStatusChanged + status)
	return saved, nil
}

func (w *Workspace) patchEmployee(ctx context.Context, id string, patch record.Record) (hr.Employee, error) {
	stored, err := w.store.Update(ctx, gateway.Employees, id, patch)
	if err != nil {
		return hr.Employee{}, w.fail(err)
	}
	var saved hr.Employee
	if err := record.Decode(stored, &saved); err != nil {
		return hr.Employee{}, err
	}

	w.mu.Lock()
	w.employees = hr.InsertEmployee(removeByID(w.employees, id, employeeID), saved)
	w.mu.Unlock()
	return saved, nil
}

// DeleteEmployee removes the employee and, mirroring the store's cascade,
// its cached events.
func (w *Workspace) DeleteEmployee(ctx context.Context, id string) error {
	if err := w.store.Delete(ctx, gateway.Employees, id); err != nil {
		return w.fail(err)
	}

	w.mu.Lock()
	w.employees = removeByID(w.employees, id, employeeID)
	events := w.events[:0]
	for _, ev := range w.events {
		if ev.EmployeeID != id {
			events = append(events, ev)
		}
	}
	w.events = events
	w.mu.Unlock()

	w.guard.Success(msgEmployeeDeleted)
	return nil
}

// CreateEvent stores ev and files it in the cached history, newest first.
func (w *Workspace) CreateEvent(ctx context.Context, ev hr.Event) (hr.Event, error) {
	rec, err := record.From(ev)
	if err != nil {
		return hr.Event{}, err
	}
	stored, err := w.store.Create(ctx, gateway.Events, rec)
	if err != nil {
		return hr.Event{}, w.fail(err)
	}
	var saved hr.Event
	if err := record.Decode(stored, &saved); err != nil {
		return hr.Event{}, err
	}

	w.mu.Lock()
	w.events = hr.InsertEvent(w.events, saved)
	w.mu.Unlock()
	w.guard.Success(msgEventCreated)
	return saved, nil
}

func (w *Workspace) UpdateEvent(ctx context.Context, id string, patch record.Record) (hr.Event, error) {
	stored, err := w.store.Update(ctx, gateway.Events, id, patch)
	if err != nil {
		return hr.Event{}, w.fail(err)
	}
	var saved hr.Event
	if err := record.Decode(stored, &saved); err != nil {
		return hr.Event{}, err
	}

	w.mu.Lock()
	if slices.ContainsFunc(w.events, func(ev hr.Event) bool { return ev.ID == id }) {
		w.events = hr.InsertEvent(removeByID(w.events, id, eventID), saved)
	}
	w.mu.Unlock()
	w.guard.Success(msgEventUpdated)
	return saved, nil
}

func (w *Workspace) DeleteEvent(ctx context.Context, id string) error {
	if err := w.store.Delete(ctx, gateway.Events, id); err != nil {
		return w.fail(err)
	}

	w.mu.Lock()
	w.events = removeByID(w.events, id, eventID)
	w.mu.Unlock()
	w.guard.Success(msgEventDeleted)
	return nil
}

// Documents are not cached; every call reads the store.
func (w *Workspace) Documents(ctx context.Context, employeeID string) ([]hr.Document, error) {
	var rows []record.Record
	var err error
	if employeeID == "" {
		rows, err = w.store.FetchAll(ctx, gateway.Documents)
	} else {
		rows, err = w.store.FetchWhere(ctx, gateway.Documents, "employeeId", employeeID)
	}
	if err != nil {
		return nil, w.fail(err)
	}
	return decodeAll[hr.Document](rows)
}

func (w *Workspace) CreateDocument(ctx context.Context, doc hr.Document) (hr.Document, error) {
	rec, err := record.From(doc)
	if err != nil {
		return hr.Document{}, err
	}
	stored, err := w.store.Create(ctx, gateway.Documents, rec)
	if err != nil {
		return hr.Document{}, w.fail(err)
	}
	var saved hr.Document
	if err := record.Decode(stored, &saved); err != nil {
		return hr.Document{}, err
	}
	w.guard.Success(msgDocumentCreated)
	return saved, nil
}

func (w *Workspace) DeleteDocument(ctx context.Context, id string) error {
	if err := w.store.Delete(ctx, gateway.Documents, id); err != nil {
		return w.fail(err)
	}
	w.guard.Success(msgDocumentDeleted)
	return nil
}

func employeeID(emp hr.Employee) string { return emp.ID }

func eventID(ev hr.Event) string { return ev.ID }

// removeByID filters list in place.
func removeByID[T any](list []T, id string, idOf func(T) string) []T {
	out := list[:0]
	for _, item := range list {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}
