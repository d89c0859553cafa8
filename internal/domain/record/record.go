// Package record holds the flat field maps exchanged with the store.
package record

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

const IDField = "id"

// Record maps column names to values. Nested objects and lists are stored as JSONB.
type Record map[string]any

// Sanitize returns a copy of in without the entries whose value is nil.
// Empty strings, zero and false survive; nested maps and slices are copied
// by reference and never cleaned recursively.
func Sanitize(in Record) Record {
	out := make(Record, len(in))
	for key, value := range in {
		if isNil(value) {
			continue
		}
		out[key] = value
	}
	return out
}

func Without(in Record, keys ...string) Record {
	out := make(Record, len(in))
	for key, value := range in {
		out[key] = value
	}
	for _, key := range keys {
		delete(out, key)
	}
	return out
}

// String returns the trimmed text stored at key, or "" when the value
// is missing or not a string.
func (r Record) String(key string) string {
	value, _ := r[key].(string)
	return strings.TrimSpace(value)
}

// From converts a typed model into a Record keyed by its JSON field names.
func From(v any) (Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("decode record: %T is not an object", v)
	}
	return out, nil
}

// Decode fills out from the record's fields.
func Decode(r Record, out any) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
