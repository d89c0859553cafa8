// Package classify tells schema drift apart from ordinary store failures.
package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type Kind int

const (
	Ordinary Kind = iota
	SchemaDrift
)

func (k Kind) String() string {
	if k == SchemaDrift {
		return "schema_drift"
	}
	return "ordinary"
}

// SQLSTATE and PostgREST codes that always mean the client and the store
// disagree about the schema.
var driftCodes = map[string]bool{
	"42703":    true, // undefined_column
	"42P01":    true, // undefined_table
	"PGRST204": true,
	"PGRST205": true,
}

var driftMarkers = []string{"column", "schema", "cache"}

type messager interface {
	Message() string
}

// Classify checks structured codes first and falls back to the text of
// the failure for sources that carry no code. A Postgres error always
// carries a SQLSTATE, so its message is never searched.
func Classify(v any) Kind {
	if v == nil {
		return Ordinary
	}
	if err, ok := v.(error); ok {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if driftCodes[pgErr.Code] {
				return SchemaDrift
			}
			return Ordinary
		}
	}
	if driftCodes[Code(v)] {
		return SchemaDrift
	}
	text := strings.ToLower(Describe(v))
	for _, marker := range driftMarkers {
		if strings.Contains(text, marker) {
			return SchemaDrift
		}
	}
	return Ordinary
}

func IsSchemaDrift(v any) bool {
	return Classify(v) == SchemaDrift
}

// Code returns the machine readable code of a failure, if it has one.
func Code(v any) string {
	if err, ok := v.(error); ok {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return pgErr.Code
		}
		return ""
	}
	if fields, ok := objectFields(v); ok {
		if code, ok := fields["code"].(string); ok {
			return code
		}
	}
	return ""
}

// Describe coerces a failure of any shape to its most informative text.
func Describe(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case error:
		var pgErr *pgconn.PgError
		if errors.As(value, &pgErr) {
			return pgErr.Message
		}
		var m messager
		if errors.As(value, &m) {
			return m.Message()
		}
		return value.Error()
	}

	if fields, ok := objectFields(v); ok {
		for _, key := range []string{"message", "error_description", "error"} {
			if text, ok := fields[key].(string); ok && text != "" {
				return text
			}
		}
	}

	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}

func objectFields(v any) (map[string]any, bool) {
	if fields, ok := v.(map[string]any); ok {
		return fields, true
	}
	raw, err := json.Marshal(v)
	if err != nil || len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	return fields, true
}
