package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIDs(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{name: "nil", input: nil, want: []string{}},
		{name: "drops empty", input: []string{" ", "a", ""}, want: []string{"a"}},
		{name: "dedupes after trim", input: []string{"a", " a ", "b"}, want: []string{"a", "b"}},
		{name: "keeps order", input: []string{"c", "a", "b"}, want: []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIDs(tt.input))
		})
	}
}
