package record

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeDropsNilKeepsFalsy(t *testing.T) {
	var nilPtr *string
	var nilSlice []any
	var nilMap map[string]any

	in := Record{
		"name":      "Ana",
		"salary":    0,
		"pixKey":    "",
		"fgts":      false,
		"bankInfo":  nil,
		"cnh":       nilMap,
		"relatives": nilSlice,
		"notes":     nilPtr,
	}

	got := Sanitize(in)

	want := Record{"name": "Ana", "salary": 0, "pixKey": "", "fgts": false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sanitize mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, in, 8, "input must not be mutated")
}

func TestSanitizeDoesNotRecurse(t *testing.T) {
	bank := map[string]any{"bank": "001", "digit": nil}
	relatives := []any{map[string]any{"name": "Bia", "birthDate": nil}}

	got := Sanitize(Record{"bankInfo": bank, "relatives": relatives})

	require.Contains(t, got, "bankInfo")
	assert.Contains(t, got["bankInfo"].(map[string]any), "digit")
	assert.Equal(t, relatives, got["relatives"])
}

func TestSanitizeProperty(t *testing.T) {
	cases := []Record{
		{},
		{"a": nil},
		{"a": "", "b": nil, "c": 0.0},
		{"a": []any{}, "b": map[string]any{}, "c": nil},
	}
	for _, in := range cases {
		out := Sanitize(in)
		for key, value := range in {
			if value == nil {
				assert.NotContains(t, out, key)
				continue
			}
			assert.Equal(t, value, out[key])
		}
	}
}

func TestWithoutCopies(t *testing.T) {
	in := Record{"id": "x", "name": "Ana"}
	out := Without(in, IDField)

	assert.Equal(t, Record{"name": "Ana"}, out)
	assert.Equal(t, "x", in[IDField])
}

func TestString(t *testing.T) {
	r := Record{"type": "  Falta ", "salary": 0, "empty": ""}
	assert.Equal(t, "Falta", r.String("type"))
	assert.Equal(t, "", r.String("salary"))
	assert.Equal(t, "", r.String("empty"))
	assert.Equal(t, "", r.String("missing"))
}

func TestFromAndDecode(t *testing.T) {
	type bank struct {
		Bank string `json:"bank"`
	}
	type model struct {
		ID       string  `json:"id,omitempty"`
		Name     string  `json:"name"`
		Salary   float64 `json:"salary"`
		BankInfo *bank   `json:"bankInfo"`
	}

	rec, err := From(model{Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, Record{"name": "Ana", "salary": 0.0, "bankInfo": nil}, rec)

	clean := Sanitize(rec)
	assert.NotContains(t, clean, "bankInfo")

	var back model
	require.NoError(t, Decode(Record{"id": "e1", "name": "Ana", "bankInfo": map[string]any{"bank": "341"}}, &back))
	assert.Equal(t, "e1", back.ID)
	require.NotNil(t, back.BankInfo)
	assert.Equal(t, "341", back.BankInfo.Bank)

	_, err = From([]string{"not", "an", "object"})
	assert.Error(t, err)
}
