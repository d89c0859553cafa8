package gateway

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrUnknownCollection = errors.New("unknown collection")
)

type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// Error is the only error kind the gateway returns. Op tells a failed
// fetch apart from a failed mutation; Err keeps the store's own error.
type Error struct {
	Op         Op
	Collection Collection
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Collection, e.Message())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the store's message without the gateway prefix.
func (e *Error) Message() string {
	if e.Err == nil {
		return ""
	}
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) {
		return pgErr.Message
	}
	return e.Err.Error()
}

func IsRead(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Op == OpRead
}

func IsWrite(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Op == OpWrite
}

func readErr(c Collection, err error) error {
	return &Error{Op: OpRead, Collection: c, Err: err}
}

func writeErr(c Collection, err error) error {
	return &Error{Op: OpWrite, Collection: c, Err: err}
}
