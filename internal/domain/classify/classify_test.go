package classify

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type storeError struct {
	Message string `json:"message"`
	Details string `json:"details"`
	Code    string `json:"code"`
}

type wrapped struct {
	msg string
}

func (w wrapped) Error() string   { return "employees write: " + w.msg }
func (w wrapped) Message() string { return w.msg }

func TestClassifySubstrings(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Kind
	}{
		{name: "missing column string", input: `column "pixKey" does not exist`, want: SchemaDrift},
		{name: "upper case schema", input: "Could not find the table in the SCHEMA", want: SchemaDrift},
		{name: "mixed case cache", input: "stale Cache entry", want: SchemaDrift},
		{name: "ordinary string", input: "duplicate key value violates unique constraint", want: Ordinary},
		{name: "error value", input: errors.New("Column missing"), want: SchemaDrift},
		{name: "ordinary error", input: errors.New("connection refused"), want: Ordinary},
		{name: "map message", input: map[string]any{"message": "relation cache outdated"}, want: SchemaDrift},
		{name: "map error_description", input: map[string]any{"error_description": "bad schema"}, want: SchemaDrift},
		{name: "map error field", input: map[string]any{"error": "timeout"}, want: Ordinary},
		{name: "struct message", input: storeError{Message: "Could not find the 'cpf' column"}, want: SchemaDrift},
		{name: "nil", input: nil, want: Ordinary},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.input))
		})
	}
}

func TestClassifyStructuredCodes(t *testing.T) {
	undefinedColumn := &pgconn.PgError{Code: "42703", Message: `column "rgOrgao" of relation "employees" does not exist`}
	assert.Equal(t, SchemaDrift, Classify(fmt.Errorf("insert: %w", undefinedColumn)))

	undefinedTable := &pgconn.PgError{Code: "42P01", Message: `relation "documents" does not exist`}
	assert.Equal(t, SchemaDrift, Classify(undefinedTable))

	postgrest := storeError{Code: "PGRST204", Message: "something unrelated"}
	assert.Equal(t, SchemaDrift, Classify(postgrest))

	unique := &pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "employees_cpf_key"`}
	assert.Equal(t, Ordinary, Classify(unique))
}

func TestClassifyPgErrorIgnoresMessageText(t *testing.T) {
	notNull := &pgconn.PgError{Code: "23502", Message: `null value in column "name" of relation "employees" violates not-null constraint`}
	assert.Equal(t, Ordinary, Classify(fmt.Errorf("insert: %w", notNull)))

	check := &pgconn.PgError{Code: "23514", Message: `new row for relation "employees" violates check constraint "status_check"`}
	assert.Equal(t, Ordinary, Classify(check))

	assert.Equal(t, SchemaDrift, Classify(errors.New(`null value in column "name"`)))
}

func TestDescribePrefersMessage(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42703", Message: `column "pixKey" does not exist`}
	assert.Equal(t, `column "pixKey" does not exist`, Describe(fmt.Errorf("wrap: %w", pgErr)))
	assert.Equal(t, "boom", Describe(wrapped{msg: "boom"}))
	assert.Equal(t, "plain", Describe("plain"))
	assert.Equal(t, "msg", Describe(map[string]any{"message": "msg", "error": "other"}))
	assert.Equal(t, `{"status":500}`, Describe(map[string]any{"status": 500}))
	assert.Equal(t, "42", Describe(42))
	assert.Equal(t, "", Describe(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "schema_drift", SchemaDrift.String())
	assert.Equal(t, "ordinary", Ordinary.String())
}
