package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"min=1,max=5"`
	Kind  string `json:"kind" validate:"oneof=a b"`
}

func TestStruct(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(&sample{Name: "x", Count: 2, Kind: "a"}))

	err := v.Struct(&sample{Count: 9, Kind: "c"})
	require.Error(t, err)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 3)

	details := errs.Details()["fields"].(map[string]any)
	assert.Equal(t, "name is required", details["name"])
	assert.Equal(t, "count must be at most 5", details["count"])
	assert.Equal(t, "kind must be one of: a b", details["kind"])
}

type window struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func TestRegisterStructRule(t *testing.T) {
	v := New()
	v.RegisterStructRule("after_from", "must be greater than from", func(sl validator.StructLevel) {
		w := sl.Current().Interface().(window)
		if w.To <= w.From {
			sl.ReportError(w.To, "to", "To", "after_from", "")
		}
	}, window{})

	require.NoError(t, v.Struct(window{From: 1, To: 2}))

	err := v.Struct(window{From: 3, To: 2})
	var errs Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, "to", errs[0].Field)
	assert.Equal(t, "to must be greater than from", errs[0].Message)
}
