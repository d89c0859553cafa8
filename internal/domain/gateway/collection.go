package gateway

import "github.com/jackc/pgx/v5"

type Collection string

const (
	Employees Collection = "employees"
	Events    Collection = "events"
	Documents Collection = "documents"
	Users     Collection = "users"
)

func (c Collection) Valid() bool {
	switch c {
	case Employees, Events, Documents, Users:
		return true
	}
	return false
}

func (c Collection) table() string {
	return pgx.Identifier{string(c)}.Sanitize()
}

// row renders a stored row as JSON. Users never expose their hash.
func (c Collection) row() string {
	if c == Users {
		return `jsonb_strip_nulls(to_jsonb(t) - 'password_hash')`
	}
	return `jsonb_strip_nulls(to_jsonb(t))`
}

func (c Collection) orderBy() string {
	switch c {
	case Employees:
		return `t."name" ASC`
	case Events:
		return `t."date" DESC, t."created_at" DESC`
	case Documents:
		return `t."uploadDate" DESC`
	case Users:
		return `t."name" ASC`
	}
	return `t."id"`
}
